package prompt

import (
	"testing"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSystemPromptContainsRequiredSections(t *testing.T) {
	for _, product := range models.Products() {
		t.Run(string(product), func(t *testing.T) {
			systemPrompt := SystemPrompt(product)
			for _, section := range RequiredSections {
				assert.Contains(t, systemPrompt, "## "+section)
			}
			assert.Contains(t, systemPrompt, product.DisplayName())
		})
	}
}

func TestSystemPromptProductFocus(t *testing.T) {
	testCases := []struct {
		product models.Product
		marker  string
	}{
		{models.ProductAllocator, "TaxAllocation.exe"},
		{models.ProductFormsPlus, "form_tree.js"},
		{models.ProductPremiumTax, "tax_calculator.py"},
		{models.ProductMunicipal, "jurisdiction_mapper.py"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.product), func(t *testing.T) {
			assert.Contains(t, SystemPrompt(tc.product), tc.marker)
		})
	}
}

func TestSystemPromptUnknownProductGetsGenericFocus(t *testing.T) {
	systemPrompt := SystemPrompt(models.Product("mystery"))
	assert.Contains(t, systemPrompt, genericFocus)
}

func TestUserContent(t *testing.T) {
	content := UserContent("  batch run crashed at 2am  ", models.ProductAllocator)

	assert.Contains(t, content, "Bug Report for Allocator:")
	assert.Contains(t, content, "batch run crashed at 2am")
	assert.NotContains(t, content, "  batch run crashed")
}

func TestFallback(t *testing.T) {
	for _, product := range models.Products() {
		t.Run(string(product), func(t *testing.T) {
			assert.NotEmpty(t, Fallback(product))
		})
	}

	t.Run("unknown product gets generic guidance", func(t *testing.T) {
		assert.Equal(t, genericFallback, Fallback(models.Product("mystery")))
	})
}
