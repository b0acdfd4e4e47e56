package taxjar

import (
	"context"
	"net/http"
	"net/url"
)

// Categories lists the product tax categories
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	return c.categories(ctx, Blocking).Await(ctx)
}

// CategoriesAsync is the suspending form of Categories
func (c *Client) CategoriesAsync(ctx context.Context) *Future[[]Category] {
	return c.categories(ctx, Suspending)
}

func (c *Client) categories(ctx context.Context, s Strategy) *Future[[]Category] {
	op := Operation{Method: http.MethodGet, Path: "categories"}
	return call(ctx, c, s, op, func(e *categoriesEnvelope) []Category { return e.Categories })
}

// RatesForLocation returns the sales tax rates for a ZIP or postal code.
// params may be nil.
func (c *Client) RatesForLocation(ctx context.Context, zip string, params *RateParams) (Rate, error) {
	return c.ratesForLocation(ctx, Blocking, zip, params).Await(ctx)
}

// RatesForLocationAsync is the suspending form of RatesForLocation
func (c *Client) RatesForLocationAsync(ctx context.Context, zip string, params *RateParams) *Future[Rate] {
	return c.ratesForLocation(ctx, Suspending, zip, params)
}

func (c *Client) ratesForLocation(ctx context.Context, s Strategy, zip string, params *RateParams) *Future[Rate] {
	if err := requireValue("zip", zip); err != nil {
		return fail[Rate](err)
	}
	op := Operation{Method: http.MethodGet, Path: "rates/" + url.PathEscape(zip)}
	if params != nil {
		op.Params = params
	}
	return call(ctx, c, s, op, func(e *rateEnvelope) Rate { return e.Rate })
}

// TaxForOrder calculates the sales tax for an order
func (c *Client) TaxForOrder(ctx context.Context, params TaxParams) (Tax, error) {
	return c.taxForOrder(ctx, Blocking, params).Await(ctx)
}

// TaxForOrderAsync is the suspending form of TaxForOrder
func (c *Client) TaxForOrderAsync(ctx context.Context, params TaxParams) *Future[Tax] {
	return c.taxForOrder(ctx, Suspending, params)
}

func (c *Client) taxForOrder(ctx context.Context, s Strategy, params TaxParams) *Future[Tax] {
	op := Operation{Method: http.MethodPost, Path: "taxes", Params: params}
	return call(ctx, c, s, op, func(e *taxEnvelope) Tax { return e.Tax })
}

// ListOrders lists order transaction IDs. params may be nil.
func (c *Client) ListOrders(ctx context.Context, params *ListOrdersParams) ([]string, error) {
	return c.listOrders(ctx, Blocking, params).Await(ctx)
}

// ListOrdersAsync is the suspending form of ListOrders
func (c *Client) ListOrdersAsync(ctx context.Context, params *ListOrdersParams) *Future[[]string] {
	return c.listOrders(ctx, Suspending, params)
}

func (c *Client) listOrders(ctx context.Context, s Strategy, params *ListOrdersParams) *Future[[]string] {
	op := Operation{Method: http.MethodGet, Path: "transactions/orders"}
	if params != nil {
		op.Params = params
	}
	return call(ctx, c, s, op, func(e *ordersEnvelope) []string { return e.Orders })
}

// ShowOrder fetches a single order transaction
func (c *Client) ShowOrder(ctx context.Context, transactionID string) (Order, error) {
	return c.orderByID(ctx, Blocking, http.MethodGet, transactionID).Await(ctx)
}

// ShowOrderAsync is the suspending form of ShowOrder
func (c *Client) ShowOrderAsync(ctx context.Context, transactionID string) *Future[Order] {
	return c.orderByID(ctx, Suspending, http.MethodGet, transactionID)
}

// DeleteOrder deletes an order transaction and returns its last state
func (c *Client) DeleteOrder(ctx context.Context, transactionID string) (Order, error) {
	return c.orderByID(ctx, Blocking, http.MethodDelete, transactionID).Await(ctx)
}

// DeleteOrderAsync is the suspending form of DeleteOrder
func (c *Client) DeleteOrderAsync(ctx context.Context, transactionID string) *Future[Order] {
	return c.orderByID(ctx, Suspending, http.MethodDelete, transactionID)
}

func (c *Client) orderByID(ctx context.Context, s Strategy, method, transactionID string) *Future[Order] {
	if err := requireValue("transaction_id", transactionID); err != nil {
		return fail[Order](err)
	}
	op := Operation{Method: method, Path: "transactions/orders/" + url.PathEscape(transactionID)}
	return call(ctx, c, s, op, func(e *orderEnvelope) Order { return e.Order })
}

// CreateOrder records a new order transaction
func (c *Client) CreateOrder(ctx context.Context, params OrderParams) (Order, error) {
	return c.writeOrder(ctx, Blocking, http.MethodPost, params).Await(ctx)
}

// CreateOrderAsync is the suspending form of CreateOrder
func (c *Client) CreateOrderAsync(ctx context.Context, params OrderParams) *Future[Order] {
	return c.writeOrder(ctx, Suspending, http.MethodPost, params)
}

// UpdateOrder updates the order named by params.TransactionID
func (c *Client) UpdateOrder(ctx context.Context, params OrderParams) (Order, error) {
	return c.writeOrder(ctx, Blocking, http.MethodPut, params).Await(ctx)
}

// UpdateOrderAsync is the suspending form of UpdateOrder
func (c *Client) UpdateOrderAsync(ctx context.Context, params OrderParams) *Future[Order] {
	return c.writeOrder(ctx, Suspending, http.MethodPut, params)
}

func (c *Client) writeOrder(ctx context.Context, s Strategy, method string, params OrderParams) *Future[Order] {
	if err := validateParams(params); err != nil {
		return fail[Order](err)
	}
	// required lets whitespace through, which would become the PUT path
	if err := requireValue("transaction_id", params.TransactionID); err != nil {
		return fail[Order](err)
	}
	path := "transactions/orders"
	if method == http.MethodPut {
		path += "/" + url.PathEscape(params.TransactionID)
	}
	op := Operation{Method: method, Path: path, Params: params}
	return call(ctx, c, s, op, func(e *orderEnvelope) Order { return e.Order })
}

// ListRefunds lists refund transaction IDs. params may be nil.
func (c *Client) ListRefunds(ctx context.Context, params *ListRefundsParams) ([]string, error) {
	return c.listRefunds(ctx, Blocking, params).Await(ctx)
}

// ListRefundsAsync is the suspending form of ListRefunds
func (c *Client) ListRefundsAsync(ctx context.Context, params *ListRefundsParams) *Future[[]string] {
	return c.listRefunds(ctx, Suspending, params)
}

func (c *Client) listRefunds(ctx context.Context, s Strategy, params *ListRefundsParams) *Future[[]string] {
	op := Operation{Method: http.MethodGet, Path: "transactions/refunds"}
	if params != nil {
		op.Params = params
	}
	return call(ctx, c, s, op, func(e *refundsEnvelope) []string { return e.Refunds })
}

// ShowRefund fetches a single refund transaction
func (c *Client) ShowRefund(ctx context.Context, transactionID string) (Refund, error) {
	return c.refundByID(ctx, Blocking, http.MethodGet, transactionID).Await(ctx)
}

// ShowRefundAsync is the suspending form of ShowRefund
func (c *Client) ShowRefundAsync(ctx context.Context, transactionID string) *Future[Refund] {
	return c.refundByID(ctx, Suspending, http.MethodGet, transactionID)
}

// DeleteRefund deletes a refund transaction and returns its last state
func (c *Client) DeleteRefund(ctx context.Context, transactionID string) (Refund, error) {
	return c.refundByID(ctx, Blocking, http.MethodDelete, transactionID).Await(ctx)
}

// DeleteRefundAsync is the suspending form of DeleteRefund
func (c *Client) DeleteRefundAsync(ctx context.Context, transactionID string) *Future[Refund] {
	return c.refundByID(ctx, Suspending, http.MethodDelete, transactionID)
}

func (c *Client) refundByID(ctx context.Context, s Strategy, method, transactionID string) *Future[Refund] {
	if err := requireValue("transaction_id", transactionID); err != nil {
		return fail[Refund](err)
	}
	op := Operation{Method: method, Path: "transactions/refunds/" + url.PathEscape(transactionID)}
	return call(ctx, c, s, op, func(e *refundEnvelope) Refund { return e.Refund })
}

// CreateRefund records a new refund transaction
func (c *Client) CreateRefund(ctx context.Context, params RefundParams) (Refund, error) {
	return c.writeRefund(ctx, Blocking, http.MethodPost, params).Await(ctx)
}

// CreateRefundAsync is the suspending form of CreateRefund
func (c *Client) CreateRefundAsync(ctx context.Context, params RefundParams) *Future[Refund] {
	return c.writeRefund(ctx, Suspending, http.MethodPost, params)
}

// UpdateRefund updates the refund named by params.TransactionID
func (c *Client) UpdateRefund(ctx context.Context, params RefundParams) (Refund, error) {
	return c.writeRefund(ctx, Blocking, http.MethodPut, params).Await(ctx)
}

// UpdateRefundAsync is the suspending form of UpdateRefund
func (c *Client) UpdateRefundAsync(ctx context.Context, params RefundParams) *Future[Refund] {
	return c.writeRefund(ctx, Suspending, http.MethodPut, params)
}

func (c *Client) writeRefund(ctx context.Context, s Strategy, method string, params RefundParams) *Future[Refund] {
	if err := validateParams(params); err != nil {
		return fail[Refund](err)
	}
	// required lets whitespace through, which would become the PUT path
	if err := requireValue("transaction_id", params.TransactionID); err != nil {
		return fail[Refund](err)
	}
	path := "transactions/refunds"
	if method == http.MethodPut {
		path += "/" + url.PathEscape(params.TransactionID)
	}
	op := Operation{Method: method, Path: path, Params: params}
	return call(ctx, c, s, op, func(e *refundEnvelope) Refund { return e.Refund })
}

// NexusRegions lists the regions where the account has nexus
func (c *Client) NexusRegions(ctx context.Context) ([]NexusRegion, error) {
	return c.nexusRegions(ctx, Blocking).Await(ctx)
}

// NexusRegionsAsync is the suspending form of NexusRegions
func (c *Client) NexusRegionsAsync(ctx context.Context) *Future[[]NexusRegion] {
	return c.nexusRegions(ctx, Suspending)
}

func (c *Client) nexusRegions(ctx context.Context, s Strategy) *Future[[]NexusRegion] {
	op := Operation{Method: http.MethodGet, Path: "nexus/regions"}
	return call(ctx, c, s, op, func(e *regionsEnvelope) []NexusRegion { return e.Regions })
}

// Validate checks a VAT identification number
func (c *Client) Validate(ctx context.Context, params ValidateParams) (Validation, error) {
	return c.validateVAT(ctx, Blocking, params).Await(ctx)
}

// ValidateAsync is the suspending form of Validate
func (c *Client) ValidateAsync(ctx context.Context, params ValidateParams) *Future[Validation] {
	return c.validateVAT(ctx, Suspending, params)
}

func (c *Client) validateVAT(ctx context.Context, s Strategy, params ValidateParams) *Future[Validation] {
	if err := validateParams(params); err != nil {
		return fail[Validation](err)
	}
	op := Operation{Method: http.MethodGet, Path: "validation", Params: params}
	return call(ctx, c, s, op, func(e *validationEnvelope) Validation { return e.Validation })
}

// SummaryRates lists the minimum and average rates for every region
func (c *Client) SummaryRates(ctx context.Context) ([]SummaryRate, error) {
	return c.summaryRates(ctx, Blocking).Await(ctx)
}

// SummaryRatesAsync is the suspending form of SummaryRates
func (c *Client) SummaryRatesAsync(ctx context.Context) *Future[[]SummaryRate] {
	return c.summaryRates(ctx, Suspending)
}

func (c *Client) summaryRates(ctx context.Context, s Strategy) *Future[[]SummaryRate] {
	op := Operation{Method: http.MethodGet, Path: "summary_rates"}
	return call(ctx, c, s, op, func(e *summaryRatesEnvelope) []SummaryRate { return e.SummaryRates })
}
