package cache

import (
	"testing"

	"github.com/stratus-tools/stratus-advisor/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	testCases := []struct {
		name      string
		queryA    string
		productA  models.Product
		queryB    string
		productB  models.Product
		wantEqual bool
	}{
		{
			name:      "identical inputs",
			queryA:    "allocation batch fails with match code error",
			productA:  models.ProductAllocator,
			queryB:    "allocation batch fails with match code error",
			productB:  models.ProductAllocator,
			wantEqual: true,
		},
		{
			name:      "case differences normalize away",
			queryA:    "Allocation Batch FAILS",
			productA:  models.ProductAllocator,
			queryB:    "allocation batch fails",
			productB:  models.ProductAllocator,
			wantEqual: true,
		},
		{
			name:      "surrounding whitespace normalizes away",
			queryA:    "  form tree is broken \n",
			productA:  models.ProductFormsPlus,
			queryB:    "form tree is broken",
			productB:  models.ProductFormsPlus,
			wantEqual: true,
		},
		{
			name:      "different products differ",
			queryA:    "rate table import fails",
			productA:  models.ProductPremiumTax,
			queryB:    "rate table import fails",
			productB:  models.ProductMunicipal,
			wantEqual: false,
		},
		{
			name:      "different queries differ",
			queryA:    "rate table import fails",
			productA:  models.ProductPremiumTax,
			queryB:    "rate table export fails",
			productB:  models.ProductPremiumTax,
			wantEqual: false,
		},
		{
			name:      "interior whitespace is preserved",
			queryA:    "form  tree",
			productA:  models.ProductFormsPlus,
			queryB:    "form tree",
			productB:  models.ProductFormsPlus,
			wantEqual: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := Fingerprint(tc.queryA, tc.productA)
			b := Fingerprint(tc.queryB, tc.productB)

			assert.Len(t, a, 64)
			assert.Len(t, b, 64)
			if tc.wantEqual {
				assert.Equal(t, a, b)
			} else {
				assert.NotEqual(t, a, b)
			}
		})
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	first := Fingerprint("geocoding fails on PO boxes", models.ProductAllocator)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Fingerprint("geocoding fails on PO boxes", models.ProductAllocator))
	}
}
