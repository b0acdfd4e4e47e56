package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/taxjar-go/filter"
	"github.com/s0up4200/taxjar-go/taxjar"
)

// maxConcurrentLookups bounds parallel rate lookups
const maxConcurrentLookups = 5

var (
	filterExpr string
	preset     string

	rateParams taxjar.RateParams
	taxParams  taxjar.TaxParams
	paramsFile string
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product tax categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var ratesCmd = &cobra.Command{
	Use:   "rates ZIP [ZIP...]",
	Short: "Show sales tax rates for one or more locations",
	Long: `Show sales tax rates for one or more ZIP or postal codes.
Several codes are looked up concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRates,
}

var taxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Calculate sales tax for an order",
	Long: `Calculate sales tax for an order. Parameters come from flags or from a
JSON file given with --file; flags override values from the file.`,
	Args: cobra.NoArgs,
	RunE: runTax,
}

var nexusCmd = &cobra.Command{
	Use:   "nexus",
	Short: "List nexus regions for the account",
	Args:  cobra.NoArgs,
	RunE:  runNexus,
}

var validateCmd = &cobra.Command{
	Use:   "validate VAT",
	Short: "Validate a VAT identification number",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var summaryRatesCmd = &cobra.Command{
	Use:   "summary-rates",
	Short: "List minimum and average rates for every region",
	Args:  cobra.NoArgs,
	RunE:  runSummaryRates,
}

func init() {
	for _, c := range []*cobra.Command{categoriesCmd, nexusCmd, summaryRatesCmd} {
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
		c.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	}

	ratesCmd.Flags().StringVar(&rateParams.Country, "country", "", "two-letter country code")
	ratesCmd.Flags().StringVar(&rateParams.State, "state", "", "state or province code")
	ratesCmd.Flags().StringVar(&rateParams.City, "city", "", "city name")
	ratesCmd.Flags().StringVar(&rateParams.Street, "street", "", "street address")

	taxCmd.Flags().StringVar(&paramsFile, "file", "", "JSON file with order parameters")
	taxCmd.Flags().StringVar(&taxParams.FromCountry, "from-country", "", "origin country")
	taxCmd.Flags().StringVar(&taxParams.FromZip, "from-zip", "", "origin ZIP")
	taxCmd.Flags().StringVar(&taxParams.FromState, "from-state", "", "origin state")
	taxCmd.Flags().StringVar(&taxParams.FromCity, "from-city", "", "origin city")
	taxCmd.Flags().StringVar(&taxParams.FromStreet, "from-street", "", "origin street")
	taxCmd.Flags().StringVar(&taxParams.ToCountry, "to-country", "", "destination country")
	taxCmd.Flags().StringVar(&taxParams.ToZip, "to-zip", "", "destination ZIP")
	taxCmd.Flags().StringVar(&taxParams.ToState, "to-state", "", "destination state")
	taxCmd.Flags().StringVar(&taxParams.ToCity, "to-city", "", "destination city")
	taxCmd.Flags().StringVar(&taxParams.ToStreet, "to-street", "", "destination street")
	taxCmd.Flags().Float64Var(&taxParams.Amount, "amount", 0, "order amount excluding shipping")
	taxCmd.Flags().Float64Var(&taxParams.Shipping, "shipping", 0, "shipping cost")
	taxCmd.Flags().StringVar(&taxParams.CustomerID, "customer-id", "", "exempt customer ID")
	taxCmd.Flags().StringVar(&taxParams.ExemptionType, "exemption-type", "", "exemption type")

	rootCmd.AddCommand(categoriesCmd, ratesCmd, taxCmd, nexusCmd, validateCmd, summaryRatesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	categories, err := client.Categories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	if expr, err := getFilterExpression(); err != nil {
		return err
	} else if expr != "" {
		f, err := filter.Categories(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		if categories, err = f.Apply(categories); err != nil {
			return err
		}
	}

	return render(cmd.OutOrStdout(), categories, func(w io.Writer) { printCategories(w, categories) })
}

func runRates(cmd *cobra.Command, args []string) error {
	var params *taxjar.RateParams
	if rateParams != (taxjar.RateParams{}) {
		params = &rateParams
	}

	rates := make([]taxjar.Rate, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentLookups)

	for i, zip := range args {
		i, zip := i, zip
		g.Go(func() error {
			rate, err := client.RatesForLocation(ctx, zip, params)
			if err != nil {
				return fmt.Errorf("failed to get rates for %s: %w", zip, err)
			}
			rates[i] = rate
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Debug().Int("count", len(rates)).Msg("Retrieved rates")

	return render(cmd.OutOrStdout(), rates, func(w io.Writer) {
		for _, rate := range rates {
			printRate(w, rate)
		}
	})
}

func runTax(cmd *cobra.Command, args []string) error {
	params := taxjar.TaxParams{}
	if paramsFile != "" {
		if err := readParams(paramsFile, &params); err != nil {
			return err
		}
	}
	mergeTaxFlags(cmd, &params)

	tax, err := client.TaxForOrder(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("failed to calculate tax: %w", err)
	}

	return render(cmd.OutOrStdout(), tax, func(w io.Writer) { printTax(w, tax) })
}

// mergeTaxFlags copies explicitly set flags over params
func mergeTaxFlags(cmd *cobra.Command, params *taxjar.TaxParams) {
	flags := cmd.Flags()
	strs := map[string]*string{
		"from-country":   &params.FromCountry,
		"from-zip":       &params.FromZip,
		"from-state":     &params.FromState,
		"from-city":      &params.FromCity,
		"from-street":    &params.FromStreet,
		"to-country":     &params.ToCountry,
		"to-zip":         &params.ToZip,
		"to-state":       &params.ToState,
		"to-city":        &params.ToCity,
		"to-street":      &params.ToStreet,
		"customer-id":    &params.CustomerID,
		"exemption-type": &params.ExemptionType,
	}
	for name, dst := range strs {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("amount") {
		params.Amount = taxParams.Amount
	}
	if flags.Changed("shipping") {
		params.Shipping = taxParams.Shipping
	}
}

func runNexus(cmd *cobra.Command, args []string) error {
	regions, err := client.NexusRegions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list nexus regions: %w", err)
	}

	if expr, err := getFilterExpression(); err != nil {
		return err
	} else if expr != "" {
		f, err := filter.NexusRegions(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		if regions, err = f.Apply(regions); err != nil {
			return err
		}
	}

	return render(cmd.OutOrStdout(), regions, func(w io.Writer) { printNexusRegions(w, regions) })
}

func runValidate(cmd *cobra.Command, args []string) error {
	validation, err := client.Validate(cmd.Context(), taxjar.ValidateParams{VAT: args[0]})
	if err != nil {
		return fmt.Errorf("failed to validate VAT number: %w", err)
	}

	return render(cmd.OutOrStdout(), validation, func(w io.Writer) { printValidation(w, args[0], validation) })
}

func runSummaryRates(cmd *cobra.Command, args []string) error {
	rates, err := client.SummaryRates(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list summary rates: %w", err)
	}

	if expr, err := getFilterExpression(); err != nil {
		return err
	} else if expr != "" {
		f, err := filter.SummaryRates(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		if rates, err = f.Apply(rates); err != nil {
			return err
		}
	}

	return render(cmd.OutOrStdout(), rates, func(w io.Writer) { printSummaryRates(w, rates) })
}

// getFilterExpression determines the filter expression to use.
// An empty result means no filtering.
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expr, ok := cfg.Filter.Presets[preset]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	return "", nil
}

// readParams decodes a JSON parameter file into dst
func readParams(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
