package taxjar

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// QueryParams is implemented by parameter types sent with GET requests.
// Query returns the flat name/value pairs for the query string.
type QueryParams interface {
	Query() url.Values
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// validateParams checks params against their validate tags.
func validateParams(params any) error {
	if err := validate.Struct(params); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), validationMessage(fe)))
			}
			return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(msgs, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

// requireValue fails fast on a blank path segment such as a transaction id.
func requireValue(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidParams, field)
	}
	return nil
}

// setIf adds key to values when val is non-empty.
func setIf(values url.Values, key, val string) {
	if val != "" {
		values.Set(key, val)
	}
}

// RateParams narrows a rate lookup beyond the ZIP code
type RateParams struct {
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
	Street  string `json:"street,omitempty"`
}

// Query implements QueryParams
func (p *RateParams) Query() url.Values {
	if p == nil {
		return nil
	}
	values := url.Values{}
	setIf(values, "country", p.Country)
	setIf(values, "state", p.State)
	setIf(values, "city", p.City)
	setIf(values, "street", p.Street)
	return values
}

// NexusAddress is a location where the seller has nexus
type NexusAddress struct {
	ID      string `json:"id,omitempty"`
	Country string `json:"country"`
	Zip     string `json:"zip,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
	Street  string `json:"street,omitempty"`
}

// LineItem is a line item for a tax calculation
type LineItem struct {
	ID             string  `json:"id,omitempty"`
	Quantity       int     `json:"quantity"`
	ProductTaxCode string  `json:"product_tax_code,omitempty"`
	UnitPrice      float64 `json:"unit_price"`
	Discount       float64 `json:"discount,omitempty"`
}

// TaxParams describes an order to calculate tax for.
// Amount may be left out when LineItems are given; Shipping is always sent.
type TaxParams struct {
	FromCountry    string         `json:"from_country,omitempty"`
	FromZip        string         `json:"from_zip,omitempty"`
	FromState      string         `json:"from_state,omitempty"`
	FromCity       string         `json:"from_city,omitempty"`
	FromStreet     string         `json:"from_street,omitempty"`
	ToCountry      string         `json:"to_country,omitempty"`
	ToZip          string         `json:"to_zip,omitempty"`
	ToState        string         `json:"to_state,omitempty"`
	ToCity         string         `json:"to_city,omitempty"`
	ToStreet       string         `json:"to_street,omitempty"`
	Amount         float64        `json:"amount,omitempty"`
	Shipping       float64        `json:"shipping"`
	CustomerID     string         `json:"customer_id,omitempty"`
	ExemptionType  string         `json:"exemption_type,omitempty"`
	NexusAddresses []NexusAddress `json:"nexus_addresses,omitempty"`
	LineItems      []LineItem     `json:"line_items,omitempty"`
}

// ListOrdersParams filters the order listing by date
type ListOrdersParams struct {
	TransactionDate     string `json:"transaction_date,omitempty"`
	FromTransactionDate string `json:"from_transaction_date,omitempty"`
	ToTransactionDate   string `json:"to_transaction_date,omitempty"`
	Provider            string `json:"provider,omitempty"`
}

// Query implements QueryParams
func (p *ListOrdersParams) Query() url.Values {
	if p == nil {
		return nil
	}
	values := url.Values{}
	setIf(values, "transaction_date", p.TransactionDate)
	setIf(values, "from_transaction_date", p.FromTransactionDate)
	setIf(values, "to_transaction_date", p.ToTransactionDate)
	setIf(values, "provider", p.Provider)
	return values
}

// ListRefundsParams filters the refund listing by date
type ListRefundsParams ListOrdersParams

// Query implements QueryParams
func (p *ListRefundsParams) Query() url.Values {
	return (*ListOrdersParams)(p).Query()
}

// TransactionLineItem is a line item on an order or refund being recorded
type TransactionLineItem struct {
	ID                string  `json:"id,omitempty"`
	Quantity          int     `json:"quantity"`
	ProductIdentifier string  `json:"product_identifier,omitempty"`
	Description       string  `json:"description,omitempty"`
	ProductTaxCode    string  `json:"product_tax_code,omitempty"`
	UnitPrice         float64 `json:"unit_price"`
	Discount          float64 `json:"discount,omitempty"`
	SalesTax          float64 `json:"sales_tax"`
}

// OrderParams creates or updates an order transaction.
// TransactionID selects the order on update.
type OrderParams struct {
	TransactionID   string                `json:"transaction_id" validate:"required"`
	TransactionDate string                `json:"transaction_date,omitempty"`
	Provider        string                `json:"provider,omitempty"`
	FromCountry     string                `json:"from_country,omitempty"`
	FromZip         string                `json:"from_zip,omitempty"`
	FromState       string                `json:"from_state,omitempty"`
	FromCity        string                `json:"from_city,omitempty"`
	FromStreet      string                `json:"from_street,omitempty"`
	ToCountry       string                `json:"to_country,omitempty"`
	ToZip           string                `json:"to_zip,omitempty"`
	ToState         string                `json:"to_state,omitempty"`
	ToCity          string                `json:"to_city,omitempty"`
	ToStreet        string                `json:"to_street,omitempty"`
	Amount          float64               `json:"amount"`
	Shipping        float64               `json:"shipping"`
	SalesTax        float64               `json:"sales_tax"`
	CustomerID      string                `json:"customer_id,omitempty"`
	ExemptionType   string                `json:"exemption_type,omitempty"`
	LineItems       []TransactionLineItem `json:"line_items,omitempty"`
}

// RefundParams creates or updates a refund transaction.
// TransactionReferenceID points at the refunded order.
type RefundParams struct {
	TransactionID          string                `json:"transaction_id" validate:"required"`
	TransactionReferenceID string                `json:"transaction_reference_id,omitempty"`
	TransactionDate        string                `json:"transaction_date,omitempty"`
	Provider               string                `json:"provider,omitempty"`
	FromCountry            string                `json:"from_country,omitempty"`
	FromZip                string                `json:"from_zip,omitempty"`
	FromState              string                `json:"from_state,omitempty"`
	FromCity               string                `json:"from_city,omitempty"`
	FromStreet             string                `json:"from_street,omitempty"`
	ToCountry              string                `json:"to_country,omitempty"`
	ToZip                  string                `json:"to_zip,omitempty"`
	ToState                string                `json:"to_state,omitempty"`
	ToCity                 string                `json:"to_city,omitempty"`
	ToStreet               string                `json:"to_street,omitempty"`
	Amount                 float64               `json:"amount"`
	Shipping               float64               `json:"shipping"`
	SalesTax               float64               `json:"sales_tax"`
	CustomerID             string                `json:"customer_id,omitempty"`
	ExemptionType          string                `json:"exemption_type,omitempty"`
	LineItems              []TransactionLineItem `json:"line_items,omitempty"`
}

// ValidateParams identifies the VAT number to validate
type ValidateParams struct {
	VAT string `json:"vat" validate:"required"`
}

// Query implements QueryParams
func (p ValidateParams) Query() url.Values {
	values := url.Values{}
	setIf(values, "vat", p.VAT)
	return values
}
