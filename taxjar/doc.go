// Package taxjar provides a client for the TaxJar sales tax API (v2).
//
// Every call goes through one request engine: the request is built with the
// bearer token and a JSON body, dispatched once, and the response is either
// returned or turned into a typed error. There is no retry, caching or rate
// limiting.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := taxjar.NewClient("your-api-key", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rate, err := client.RatesForLocation(ctx, "90210", nil)
//
// A blank key falls back to the TAXJAR_API_KEY environment variable. Use
// WithAPIURL(taxjar.SandboxAPIURL) for sandbox credentials.
//
// # Blocking and suspending calls
//
// Each operation has an Async twin that starts the call on its own goroutine
// and returns a Future. Both forms share the same request building and error
// classification:
//
//	f := client.TaxForOrderAsync(ctx, taxjar.TaxParams{ToCountry: "US", ToZip: "90002", Amount: 15})
//	// ...
//	tax, err := f.Await(ctx)
//
// Cancelling the context passed to the Async method aborts the exchange; the
// Future then resolves to the context error.
//
// # Error Handling
//
//   - ErrMissingAPIKey: no credentials at construction
//   - ErrInvalidParams: a required identifier or field is missing
//   - APIError: the service answered with status >= 400
//   - MalformedErrorPayloadError: status >= 400 with an unreadable body
//
// Both service error types match ErrServiceFailure:
//
//	var apiErr *taxjar.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnprocessable() {
//		fmt.Println(apiErr.StatusCode, apiErr.Err.Detail)
//	}
package taxjar
