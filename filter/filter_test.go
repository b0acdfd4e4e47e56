package filter

import (
	"errors"
	"testing"

	"github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/taxjar-go/taxjar"
)

func summaryRate(country, region string, min, avg string) taxjar.SummaryRate {
	return taxjar.SummaryRate{
		CountryCode: country,
		Country:     country,
		RegionCode:  region,
		Region:      region,
		MinimumRate: taxjar.RateSummary{Label: "State Tax", Rate: decimal.RequireFromString(min)},
		AverageRate: taxjar.RateSummary{Label: "Tax", Rate: decimal.RequireFromString(avg)},
	}
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `CountryCode == "US"`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `containsFold(Region, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "non boolean result",
			expression: `AverageRate * 2`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `CountryCode == "US" and AverageRate > 0.07 and hasPrefix(Region, "cal")`,
		},
		{
			name:       "builtin string operators",
			expression: `Region contains "or" or lower(Region) startsWith "cal" or Region endsWith "io"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := SummaryRates(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, filter.String())
		})
	}
}

func TestSummaryRateFilter(t *testing.T) {
	rates := []taxjar.SummaryRate{
		summaryRate("US", "California", "0.065", "0.0827"),
		summaryRate("US", "Oregon", "0", "0"),
		summaryRate("CA", "Ontario", "0.13", "0.13"),
	}

	tests := []struct {
		expression string
		want       []string
	}{
		{`AverageRate > 0.08`, []string{"California", "Ontario"}},
		{`CountryCode == "US"`, []string{"California", "Oregon"}},
		{`MinimumRate == 0`, []string{"Oregon"}},
		{`containsFold(Region, "ORE") or RegionCode == "Ontario"`, []string{"Oregon", "Ontario"}},
		{`lower(Region) startsWith "cal"`, []string{"California"}},
		{`hasSuffix(Region, "GON")`, []string{"Oregon"}},
		{`lower(CountryCode) == "ca"`, []string{"Ontario"}},
		{`AverageLabel == "Tax" and MinimumLabel == "State Tax"`, []string{"California", "Oregon", "Ontario"}},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			filter, err := SummaryRates(tt.expression)
			require.NoError(t, err)

			matched, err := filter.Apply(rates)
			require.NoError(t, err)

			var regions []string
			for _, r := range matched {
				regions = append(regions, r.Region)
			}
			assert.Equal(t, tt.want, regions)
		})
	}
}

func TestNexusRegionFilter(t *testing.T) {
	regions := []taxjar.NexusRegion{
		{CountryCode: "US", Country: "United States", RegionCode: "CA", Region: "California"},
		{CountryCode: "US", Country: "United States", RegionCode: "NY", Region: "New York"},
		{CountryCode: "CA", Country: "Canada", RegionCode: "ON", Region: "Ontario"},
	}

	filter, err := NexusRegions(`Country == "United States" and hasSuffix(Region, "york")`)
	require.NoError(t, err)

	matched, err := filter.Apply(regions)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "NY", matched[0].RegionCode)
}

func TestCategoryFilter(t *testing.T) {
	categories := []taxjar.Category{
		{Name: "Clothing", ProductTaxCode: "20010", Description: "All human wearing apparel"},
		{Name: "Digital Goods", ProductTaxCode: "31000", Description: "Digital products transferred electronically"},
	}

	filter, err := Categories(`hasPrefix(ProductTaxCode, "31")`)
	require.NoError(t, err)

	ok, err := filter.Match(categories[0])
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = filter.Match(categories[1])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompiledProgramsAreCached(t *testing.T) {
	expression := `RegionCode == "WA"`

	first, err := NexusRegions(expression)
	require.NoError(t, err)
	second, err := NexusRegions(expression)
	require.NoError(t, err)

	assert.Same(t, first.program, second.program)

	// same text, different item type
	third, err := Compile(`Name == "WA"`, CategoryEnv)
	require.NoError(t, err)
	assert.NotSame(t, first.program, third.program)
}

func TestProgramCacheEviction(t *testing.T) {
	cache := newProgramCache(2)
	a, b, c := new(vm.Program), new(vm.Program), new(vm.Program)

	cache.Put("a", a)
	cache.Put("b", b)
	_, ok := cache.Get("a")
	require.True(t, ok)

	cache.Put("c", c)
	assert.Equal(t, 2, cache.Len())

	_, ok = cache.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")

	got, ok := cache.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)
}
