package confidence

import (
	"strings"
	"testing"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/prompt"

	"github.com/stretchr/testify/assert"
)

func fullyStructuredResponse() string {
	var b strings.Builder
	for _, section := range prompt.RequiredSections {
		b.WriteString("## " + section + "\n")
		b.WriteString("Check the allocation batch configuration in allocation.config and rerun the geocoding service. ")
		b.WriteString("See TTS-4821 for the matching historical fix and validate the database migration.\n\n")
	}
	return b.String()
}

func TestScoreDeterministic(t *testing.T) {
	response := fullyStructuredResponse()
	query := "allocation batch fails with match code error"

	first := Score(response, query, models.ProductAllocator)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(response, query, models.ProductAllocator))
	}
}

func TestScoreBounds(t *testing.T) {
	testCases := []struct {
		name     string
		response string
		product  models.Product
	}{
		{name: "empty response", response: "", product: models.ProductAllocator},
		{name: "single word", response: "no", product: models.ProductFormsPlus},
		{name: "fully structured", response: fullyStructuredResponse(), product: models.ProductAllocator},
		{name: "unknown product", response: fullyStructuredResponse(), product: models.Product("unknown")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			score := Score(tc.response, "some query text", tc.product)
			assert.GreaterOrEqual(t, score, 0.1)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestScoreSectionMonotonicity(t *testing.T) {
	// Each additional required section header must not lower the score.
	prev := 0.0
	var b strings.Builder
	for i, section := range prompt.RequiredSections {
		b.WriteString("## " + section + "\n\n")
		score := Score(b.String(), "query", models.Product("unknown"))
		if i > 0 {
			assert.GreaterOrEqual(t, score, prev, "adding section %q lowered the score", section)
		}
		prev = score
	}
}

func TestScoreRewardsStructureAndVocabulary(t *testing.T) {
	structured := fullyStructuredResponse()
	flat := "Try restarting the application and see if the problem goes away."

	structuredScore := Score(structured, "batch fails", models.ProductAllocator)
	flatScore := Score(flat, "batch fails", models.ProductAllocator)

	assert.Greater(t, structuredScore, flatScore)
	// All sections, dense technical vocabulary, length bonus and
	// product keywords add up to a high-confidence answer.
	assert.GreaterOrEqual(t, structuredScore, 0.9)
}

func TestScoreLengthBonus(t *testing.T) {
	base := "## Root Cause Analysis\nSomething about the failure."
	long := base + strings.Repeat(" more detail on the failure mode", 40)

	assert.Greater(t, len(long), 1000)
	assert.Greater(t,
		Score(long, "query", models.Product("unknown")),
		Score(base, "query", models.Product("unknown")))
}

func TestScoreProductKeywords(t *testing.T) {
	response := "The geocoding step produced a bad match code during allocation; " +
		"verify the address standardization and the TTS- ticket history."

	withProduct := Score(response, "query", models.ProductAllocator)
	withoutProduct := Score(response, "query", models.Product("unknown"))

	assert.Greater(t, withProduct, withoutProduct)
}
