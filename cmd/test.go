package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to TaxJar",
	Long:  `Check the API key against TaxJar and display basic account information.`,
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Testing connection to TaxJar at %s...\n", client.APIURL())

	// Both lookups run at the same time
	categoriesCall := client.CategoriesAsync(ctx)
	regionsCall := client.NexusRegionsAsync(ctx)

	categories, err := categoriesCall.Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	regions, err := regionsCall.Await(ctx)
	if err != nil {
		return fmt.Errorf("failed to get nexus regions: %w", err)
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "\nTaxJar Account:\n")
	fmt.Fprintf(out, "- Sandbox: %s\n", yesNo(cfg.TaxJar.Sandbox))
	fmt.Fprintf(out, "- Product categories: %d\n", len(categories))
	fmt.Fprintf(out, "- Nexus regions: %d\n", len(regions))

	if len(regions) > 0 {
		fmt.Fprintf(out, "\nNexus regions:\n")
		for _, r := range regions {
			fmt.Fprintf(out, "  • %s (%s-%s)\n", r.Region, r.CountryCode, r.RegionCode)
		}
	}

	return nil
}
