package taxjar

import (
	"context"
)

// API defines the blocking TaxJar operations
type API interface {
	// Categories lists product tax categories
	Categories(ctx context.Context) ([]Category, error)

	// RatesForLocation returns rates for a ZIP or postal code
	RatesForLocation(ctx context.Context, zip string, params *RateParams) (Rate, error)

	// TaxForOrder calculates tax for an order
	TaxForOrder(ctx context.Context, params TaxParams) (Tax, error)

	// Order transactions
	ListOrders(ctx context.Context, params *ListOrdersParams) ([]string, error)
	ShowOrder(ctx context.Context, transactionID string) (Order, error)
	CreateOrder(ctx context.Context, params OrderParams) (Order, error)
	UpdateOrder(ctx context.Context, params OrderParams) (Order, error)
	DeleteOrder(ctx context.Context, transactionID string) (Order, error)

	// Refund transactions
	ListRefunds(ctx context.Context, params *ListRefundsParams) ([]string, error)
	ShowRefund(ctx context.Context, transactionID string) (Refund, error)
	CreateRefund(ctx context.Context, params RefundParams) (Refund, error)
	UpdateRefund(ctx context.Context, params RefundParams) (Refund, error)
	DeleteRefund(ctx context.Context, transactionID string) (Refund, error)

	// NexusRegions lists regions where the account has nexus
	NexusRegions(ctx context.Context) ([]NexusRegion, error)

	// Validate checks a VAT number
	Validate(ctx context.Context, params ValidateParams) (Validation, error)

	// SummaryRates lists minimum and average rates per region
	SummaryRates(ctx context.Context) ([]SummaryRate, error)
}

var _ API = (*Client)(nil)
