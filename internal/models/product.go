package models

import "strings"

// Product identifies one of the supported STRATUS products.
type Product string

const (
	ProductAllocator  Product = "allocator"
	ProductFormsPlus  Product = "formsplus"
	ProductPremiumTax Product = "premium_tax"
	ProductMunicipal  Product = "municipal"
)

// ProductInfo carries the static per-product data shared by the prompt
// builder and the confidence scorer.
type ProductInfo struct {
	DisplayName string
	// Keywords are the product-specific indicators counted by the
	// confidence scorer, five per product.
	Keywords []string
}

var productRegistry = map[Product]ProductInfo{
	ProductAllocator: {
		DisplayName: "Allocator",
		Keywords:    []string{"geocoding", "allocation", "TTS-", "match code", "address"},
	},
	ProductFormsPlus: {
		DisplayName: "FormsPlus",
		Keywords:    []string{"form", "tree", "ClickUp", "validation", "field"},
	},
	ProductPremiumTax: {
		DisplayName: "Premium Tax",
		Keywords:    []string{"tax", "calculation", "e-filing", "rate", "compliance"},
	},
	ProductMunicipal: {
		DisplayName: "Municipal",
		Keywords:    []string{"municipal", "jurisdiction", "code", "boundary", "mapping"},
	},
}

// ParseProduct normalizes and validates a product identifier.
func ParseProduct(s string) (Product, bool) {
	p := Product(strings.ToLower(strings.TrimSpace(s)))
	_, ok := productRegistry[p]
	return p, ok
}

// Products returns the closed set of supported products.
func Products() []Product {
	return []Product{ProductAllocator, ProductFormsPlus, ProductPremiumTax, ProductMunicipal}
}

// ProductNames returns the supported identifiers for error messages.
func ProductNames() string {
	names := make([]string, 0, len(productRegistry))
	for _, p := range Products() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// Info returns the static data for a product. The second return is false
// for unrecognized products, whose contribution to scoring is zero.
func (p Product) Info() (ProductInfo, bool) {
	info, ok := productRegistry[p]
	return info, ok
}

// DisplayName returns the human-facing product name, falling back to the
// raw identifier for unrecognized products.
func (p Product) DisplayName() string {
	if info, ok := productRegistry[p]; ok {
		return info.DisplayName
	}
	return string(p)
}
