package prompt

import "github.com/stratus-tools/stratus-advisor/internal/models"

const genericFallback = "## Service Temporarily Unavailable\n\nThe STRATUS Bug Advisor AI service is currently unavailable. Please try again in a few minutes or contact support."

var productFallback = map[models.Product]string{
	models.ProductAllocator: `## Service Temporarily Unavailable

The STRATUS Bug Advisor AI service is currently unavailable. Please try the following general troubleshooting steps for Allocator issues:

## Common Allocator Issues
- Check TaxAllocation.exe configuration files
- Verify geocoding service connectivity
- Review batch processing logs
- Validate input data format

## Files to Check
- allocation.config
- geocoding.xml
- batch_processor.py
- Error logs in /logs/allocator/

Please try again in a few minutes or contact support if the issue persists.`,

	models.ProductFormsPlus: `## Service Temporarily Unavailable

The STRATUS Bug Advisor AI service is currently unavailable. Please try the following general troubleshooting steps for FormsPlus issues:

## Common FormsPlus Issues
- Check form tree navigation
- Verify field validation rules
- Review user permissions
- Check database connections

## Files to Check
- form_tree.js
- validation_rules.json
- form_renderer.tsx
- permissions.config

Please try again in a few minutes or contact support if the issue persists.`,

	models.ProductPremiumTax: `## Service Temporarily Unavailable

The STRATUS Bug Advisor AI service is currently unavailable. Please try the following general troubleshooting steps for Premium Tax issues:

## Common Premium Tax Issues
- Check tax calculation engine
- Verify e-filing configurations
- Review rate table updates
- Validate compliance rules

## Files to Check
- tax_calculator.py
- efile_processor.cs
- rate_tables.sql
- compliance_rules.xml

Please try again in a few minutes or contact support if the issue persists.`,

	models.ProductMunicipal: `## Service Temporarily Unavailable

The STRATUS Bug Advisor AI service is currently unavailable. Please try the following general troubleshooting steps for Municipal issues:

## Common Municipal Issues
- Check municipal code database
- Verify jurisdiction mappings
- Review rate calculations
- Check data import processes

## Files to Check
- municipal_codes.db
- jurisdiction_mapper.py
- rate_engine.cs
- import_processor.java

Please try again in a few minutes or contact support if the issue persists.`,
}

// Fallback returns the canned troubleshooting text served alongside a
// service_unavailable error. It never fails.
func Fallback(product models.Product) string {
	if text, ok := productFallback[product]; ok {
		return text
	}
	return genericFallback
}
