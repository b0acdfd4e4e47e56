package taxjar

import (
	"github.com/shopspring/decimal"
)

// Category is a product tax category
type Category struct {
	Name           string `json:"name"`
	ProductTaxCode string `json:"product_tax_code"`
	Description    string `json:"description"`
}

// Rate is the set of sales tax rates for a location. US locations fill the
// state/county/city fields; EU and Canadian locations fill the remainder.
type Rate struct {
	Zip                   string          `json:"zip"`
	Country               string          `json:"country,omitempty"`
	CountryRate           decimal.Decimal `json:"country_rate"`
	State                 string          `json:"state,omitempty"`
	StateRate             decimal.Decimal `json:"state_rate"`
	County                string          `json:"county,omitempty"`
	CountyRate            decimal.Decimal `json:"county_rate"`
	City                  string          `json:"city,omitempty"`
	CityRate              decimal.Decimal `json:"city_rate"`
	CombinedDistrictRate  decimal.Decimal `json:"combined_district_rate"`
	CombinedRate          decimal.Decimal `json:"combined_rate"`
	FreightTaxable        bool            `json:"freight_taxable"`
	Name                  string          `json:"name,omitempty"`
	StandardRate          decimal.Decimal `json:"standard_rate"`
	ReducedRate           decimal.Decimal `json:"reduced_rate"`
	SuperReducedRate      decimal.Decimal `json:"super_reduced_rate"`
	ParkingRate           decimal.Decimal `json:"parking_rate"`
	DistanceSaleThreshold decimal.Decimal `json:"distance_sale_threshold"`
}

// Tax is the result of a tax calculation for an order
type Tax struct {
	OrderTotalAmount decimal.Decimal `json:"order_total_amount"`
	Shipping         decimal.Decimal `json:"shipping"`
	TaxableAmount    decimal.Decimal `json:"taxable_amount"`
	AmountToCollect  decimal.Decimal `json:"amount_to_collect"`
	Rate             decimal.Decimal `json:"rate"`
	HasNexus         bool            `json:"has_nexus"`
	FreightTaxable   bool            `json:"freight_taxable"`
	TaxSource        string          `json:"tax_source,omitempty"`
	Jurisdictions    *Jurisdictions  `json:"jurisdictions,omitempty"`
	Breakdown        *Breakdown      `json:"breakdown,omitempty"`
}

// Jurisdictions names the jurisdictions a calculation applied to
type Jurisdictions struct {
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
	County  string `json:"county,omitempty"`
	City    string `json:"city,omitempty"`
}

// Breakdown splits a tax calculation by jurisdiction
type Breakdown struct {
	TaxableAmount                 decimal.Decimal     `json:"taxable_amount"`
	TaxCollectable                decimal.Decimal     `json:"tax_collectable"`
	CombinedTaxRate               decimal.Decimal     `json:"combined_tax_rate"`
	StateTaxableAmount            decimal.Decimal     `json:"state_taxable_amount"`
	StateTaxRate                  decimal.Decimal     `json:"state_tax_rate"`
	StateTaxCollectable           decimal.Decimal     `json:"state_tax_collectable"`
	CountyTaxableAmount           decimal.Decimal     `json:"county_taxable_amount"`
	CountyTaxRate                 decimal.Decimal     `json:"county_tax_rate"`
	CountyTaxCollectable          decimal.Decimal     `json:"county_tax_collectable"`
	CityTaxableAmount             decimal.Decimal     `json:"city_taxable_amount"`
	CityTaxRate                   decimal.Decimal     `json:"city_tax_rate"`
	CityTaxCollectable            decimal.Decimal     `json:"city_tax_collectable"`
	SpecialDistrictTaxableAmount  decimal.Decimal     `json:"special_district_taxable_amount"`
	SpecialTaxRate                decimal.Decimal     `json:"special_tax_rate"`
	SpecialDistrictTaxCollectable decimal.Decimal     `json:"special_district_tax_collectable"`
	Shipping                      *ShippingBreakdown  `json:"shipping,omitempty"`
	LineItems                     []LineItemBreakdown `json:"line_items,omitempty"`
}

// ShippingBreakdown is the tax applied to shipping
type ShippingBreakdown struct {
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxCollectable  decimal.Decimal `json:"tax_collectable"`
	CombinedTaxRate decimal.Decimal `json:"combined_tax_rate"`
}

// LineItemBreakdown is the tax applied to a single line item
type LineItemBreakdown struct {
	ID              string          `json:"id"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxCollectable  decimal.Decimal `json:"tax_collectable"`
	CombinedTaxRate decimal.Decimal `json:"combined_tax_rate"`
}

// Order is a transaction recorded for reporting
type Order struct {
	TransactionID          string          `json:"transaction_id"`
	UserID                 int64           `json:"user_id"`
	TransactionDate        string          `json:"transaction_date"`
	TransactionReferenceID string          `json:"transaction_reference_id,omitempty"`
	Provider               string          `json:"provider,omitempty"`
	FromCountry            string          `json:"from_country,omitempty"`
	FromZip                string          `json:"from_zip,omitempty"`
	FromState              string          `json:"from_state,omitempty"`
	FromCity               string          `json:"from_city,omitempty"`
	FromStreet             string          `json:"from_street,omitempty"`
	ToCountry              string          `json:"to_country"`
	ToZip                  string          `json:"to_zip"`
	ToState                string          `json:"to_state"`
	ToCity                 string          `json:"to_city,omitempty"`
	ToStreet               string          `json:"to_street,omitempty"`
	Amount                 decimal.Decimal `json:"amount"`
	Shipping               decimal.Decimal `json:"shipping"`
	SalesTax               decimal.Decimal `json:"sales_tax"`
	LineItems              []OrderLineItem `json:"line_items,omitempty"`
}

// Refund is a refund transaction recorded for reporting
type Refund Order

// OrderLineItem is a line item on a recorded transaction
type OrderLineItem struct {
	ID                string          `json:"id"`
	Quantity          int             `json:"quantity"`
	ProductIdentifier string          `json:"product_identifier,omitempty"`
	Description       string          `json:"description,omitempty"`
	ProductTaxCode    string          `json:"product_tax_code,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Discount          decimal.Decimal `json:"discount"`
	SalesTax          decimal.Decimal `json:"sales_tax"`
}

// NexusRegion is a region where the account has nexus
type NexusRegion struct {
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
	RegionCode  string `json:"region_code"`
	Region      string `json:"region"`
}

// Validation is the result of a VAT number check
type Validation struct {
	Valid         bool          `json:"valid"`
	Exists        bool          `json:"exists"`
	VIESAvailable bool          `json:"vies_available"`
	VIESResponse  *VIESResponse `json:"vies_response,omitempty"`
}

// VIESResponse is the raw answer from the EU VIES service
type VIESResponse struct {
	CountryCode string `json:"country_code"`
	VATNumber   string `json:"vat_number"`
	RequestDate string `json:"request_date"`
	Valid       bool   `json:"valid"`
	Name        string `json:"name"`
	Address     string `json:"address"`
}

// SummaryRate is the minimum and average rate for a region
type SummaryRate struct {
	CountryCode string      `json:"country_code"`
	Country     string      `json:"country"`
	RegionCode  string      `json:"region_code"`
	Region      string      `json:"region"`
	MinimumRate RateSummary `json:"minimum_rate"`
	AverageRate RateSummary `json:"average_rate"`
}

// RateSummary is a labelled rate
type RateSummary struct {
	Label string          `json:"label"`
	Rate  decimal.Decimal `json:"rate"`
}

// Response envelopes. Each wraps the payload under the service's root key.
type (
	categoriesEnvelope struct {
		Categories []Category `json:"categories"`
	}
	rateEnvelope struct {
		Rate Rate `json:"rate"`
	}
	taxEnvelope struct {
		Tax Tax `json:"tax"`
	}
	ordersEnvelope struct {
		Orders []string `json:"orders"`
	}
	orderEnvelope struct {
		Order Order `json:"order"`
	}
	refundsEnvelope struct {
		Refunds []string `json:"refunds"`
	}
	refundEnvelope struct {
		Refund Refund `json:"refund"`
	}
	regionsEnvelope struct {
		Regions []NexusRegion `json:"regions"`
	}
	validationEnvelope struct {
		Validation Validation `json:"validation"`
	}
	summaryRatesEnvelope struct {
		SummaryRates []SummaryRate `json:"summary_rates"`
	}
)
