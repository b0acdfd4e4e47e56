package filter

import (
	"github.com/s0up4200/taxjar-go/taxjar"
)

// SummaryRateEnv exposes a summary rate as CountryCode, Country, RegionCode,
// Region, MinimumRate, MinimumLabel, AverageRate and AverageLabel.
func SummaryRateEnv(r taxjar.SummaryRate) map[string]any {
	return map[string]any{
		"CountryCode":  r.CountryCode,
		"Country":      r.Country,
		"RegionCode":   r.RegionCode,
		"Region":       r.Region,
		"MinimumRate":  r.MinimumRate.Rate.InexactFloat64(),
		"MinimumLabel": r.MinimumRate.Label,
		"AverageRate":  r.AverageRate.Rate.InexactFloat64(),
		"AverageLabel": r.AverageRate.Label,
	}
}

// NexusRegionEnv exposes a nexus region as CountryCode, Country, RegionCode
// and Region.
func NexusRegionEnv(r taxjar.NexusRegion) map[string]any {
	return map[string]any{
		"CountryCode": r.CountryCode,
		"Country":     r.Country,
		"RegionCode":  r.RegionCode,
		"Region":      r.Region,
	}
}

// CategoryEnv exposes a category as Name, ProductTaxCode and Description.
func CategoryEnv(c taxjar.Category) map[string]any {
	return map[string]any{
		"Name":           c.Name,
		"ProductTaxCode": c.ProductTaxCode,
		"Description":    c.Description,
	}
}

// SummaryRates compiles a filter over summary rates
func SummaryRates(expression string) (*Filter[taxjar.SummaryRate], error) {
	return Compile(expression, SummaryRateEnv)
}

// NexusRegions compiles a filter over nexus regions
func NexusRegions(expression string) (*Filter[taxjar.NexusRegion], error) {
	return Compile(expression, NexusRegionEnv)
}

// Categories compiles a filter over tax categories
func Categories(expression string) (*Filter[taxjar.Category], error) {
	return Compile(expression, CategoryEnv)
}
