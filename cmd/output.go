package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/s0up4200/taxjar-go/taxjar"
)

// render writes v as indented JSON when json output is selected, otherwise
// it calls text.
func render(w io.Writer, v any, text func(w io.Writer)) error {
	if cfg != nil && cfg.Output.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func printCategories(w io.Writer, categories []taxjar.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tDESCRIPTION")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ProductTaxCode, c.Name, truncate(c.Description, 60))
	}
	tw.Flush()
}

func printRate(w io.Writer, rate taxjar.Rate) {
	fmt.Fprintf(w, "• %s", rate.Zip)
	if rate.City != "" || rate.State != "" {
		fmt.Fprintf(w, " (%s)", strings.Trim(rate.City+", "+rate.State, ", "))
	}
	if rate.Country != "" {
		fmt.Fprintf(w, " %s", rate.Country)
	}
	fmt.Fprintln(w)

	if rate.Name != "" {
		// EU / international shape
		fmt.Fprintf(w, "  Standard rate: %s\n", rate.StandardRate)
		fmt.Fprintf(w, "  Reduced rate:  %s\n", rate.ReducedRate)
		return
	}
	fmt.Fprintf(w, "  State:    %s\n", rate.StateRate)
	fmt.Fprintf(w, "  County:   %s\n", rate.CountyRate)
	fmt.Fprintf(w, "  City:     %s\n", rate.CityRate)
	fmt.Fprintf(w, "  District: %s\n", rate.CombinedDistrictRate)
	fmt.Fprintf(w, "  Combined: %s\n", rate.CombinedRate)
	fmt.Fprintf(w, "  Freight taxable: %s\n", yesNo(rate.FreightTaxable))
}

func printTax(w io.Writer, tax taxjar.Tax) {
	fmt.Fprintf(w, "Order total:       %s\n", tax.OrderTotalAmount)
	fmt.Fprintf(w, "Shipping:          %s\n", tax.Shipping)
	fmt.Fprintf(w, "Taxable amount:    %s\n", tax.TaxableAmount)
	fmt.Fprintf(w, "Amount to collect: %s\n", tax.AmountToCollect)
	fmt.Fprintf(w, "Rate:              %s\n", tax.Rate)
	fmt.Fprintf(w, "Has nexus:         %s\n", yesNo(tax.HasNexus))
	if tax.TaxSource != "" {
		fmt.Fprintf(w, "Tax source:        %s\n", tax.TaxSource)
	}
	if tax.Breakdown != nil && len(tax.Breakdown.LineItems) > 0 {
		fmt.Fprintln(w, "\nLine items:")
		for _, item := range tax.Breakdown.LineItems {
			fmt.Fprintf(w, "  • %s: %s (rate %s)\n", item.ID, item.TaxCollectable, item.CombinedTaxRate)
		}
	}
}

func printTransaction(w io.Writer, kind string, o taxjar.Order) {
	fmt.Fprintf(w, "%s %s\n", kind, o.TransactionID)
	if o.TransactionReferenceID != "" {
		fmt.Fprintf(w, "  Reference: %s\n", o.TransactionReferenceID)
	}
	if o.TransactionDate != "" {
		fmt.Fprintf(w, "  Date:      %s\n", o.TransactionDate)
	}
	fmt.Fprintf(w, "  Ship to:   %s\n", strings.Trim(strings.Join([]string{o.ToStreet, o.ToCity, o.ToState, o.ToZip, o.ToCountry}, " "), " "))
	fmt.Fprintf(w, "  Amount:    %s\n", o.Amount)
	fmt.Fprintf(w, "  Shipping:  %s\n", o.Shipping)
	fmt.Fprintf(w, "  Sales tax: %s\n", o.SalesTax)
	if len(o.LineItems) > 0 {
		fmt.Fprintf(w, "  Line items: %d\n", len(o.LineItems))
	}
}

func printIDs(w io.Writer, kind string, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintf(w, "No %s found.\n", kind)
		return
	}
	fmt.Fprintf(w, "Found %d %s:\n", len(ids), kind)
	for _, id := range ids {
		fmt.Fprintf(w, "• %s\n", id)
	}
}

func printNexusRegions(w io.Writer, regions []taxjar.NexusRegion) {
	if len(regions) == 0 {
		fmt.Fprintln(w, "No nexus regions found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COUNTRY\tREGION\tNAME")
	for _, r := range regions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.CountryCode, r.RegionCode, r.Region)
	}
	tw.Flush()
}

func printSummaryRates(w io.Writer, rates []taxjar.SummaryRate) {
	if len(rates) == 0 {
		fmt.Fprintln(w, "No summary rates found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COUNTRY\tREGION\tMINIMUM\tAVERAGE")
	for _, r := range rates {
		fmt.Fprintf(tw, "%s\t%s\t%s (%s)\t%s (%s)\n",
			r.CountryCode, r.RegionCode,
			r.MinimumRate.Rate, r.MinimumRate.Label,
			r.AverageRate.Rate, r.AverageRate.Label)
	}
	tw.Flush()
}

func printValidation(w io.Writer, vat string, v taxjar.Validation) {
	fmt.Fprintf(w, "VAT %s\n", vat)
	fmt.Fprintf(w, "  Valid:  %s\n", yesNo(v.Valid))
	fmt.Fprintf(w, "  Exists: %s\n", yesNo(v.Exists))
	if v.VIESResponse != nil && v.VIESResponse.Name != "" {
		fmt.Fprintf(w, "  Name:   %s\n", v.VIESResponse.Name)
	}
	if !v.VIESAvailable {
		fmt.Fprintln(w, "  (VIES was unavailable; result may be incomplete)")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
