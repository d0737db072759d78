package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"devicecover/internal/pricing"
	"devicecover/internal/validate"
)

var (
	outputJSON bool

	quoteValue    float64
	quoteCategory string
	quoteAge      int
	quoteCoverage string
	quoteTerm     int

	listPrice       float64
	listCategory    string
	listReleaseYear int

	phoneBrand string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price one coverage option for a user-entered device",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !validate.DeclaredValue(quoteValue) {
			return fmt.Errorf("--value must be between 1 and %d", validate.MaxDeclaredValue)
		}
		if !validate.AgeMonths(quoteAge) {
			return fmt.Errorf("--age must be between 0 and 600 months")
		}
		if quoteTerm < 0 || quoteTerm > 3 {
			return fmt.Errorf("--term must be 1, 2 or 3")
		}
		out := cmd.OutOrStdout()
		if pricing.UsesFixedPricing(quoteCategory) {
			fmt.Fprintf(out, "%q is priced with a fixed phone package; use `devicecover phone --brand`\n", quoteCategory)
			return nil
		}
		coverage, ok := validate.Coverage(quoteCoverage)
		if !ok {
			return fmt.Errorf("--coverage must be one of %v", pricing.CoverageTypes)
		}
		res := pricing.CalculatePremium(pricing.Input{
			DeclaredValue:     quoteValue,
			DeviceCategory:    quoteCategory,
			PurchaseAgeMonths: quoteAge,
			CoverageType:      coverage,
			TermYears:         quoteTerm,
		})
		if outputJSON {
			return writeJSON(out, res)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Coverage\t%s\n", coverage)
		fmt.Fprintf(tw, "Annual\t%s\n", pricing.FormatPrice(res.AnnualPremium))
		fmt.Fprintf(tw, "Monthly\t%s\n", pricing.FormatPrice(res.MonthlyPremium))
		fmt.Fprintf(tw, "Deductible\t%s\n", deductibleText(res.Deductible))
		fmt.Fprintf(tw, "Claims\t%d up to %s\n", res.Limits.MaxClaims, pricing.FormatPrice(res.Limits.MaxAmount))
		if res.Discounts != nil {
			fmt.Fprintf(tw, "Term discount\t%g%% for %d years\n", res.Discounts.DiscountPercent, res.Discounts.TermYears)
		}
		return tw.Flush()
	},
}

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Compare every coverage option for a catalog-style device",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !validate.DeclaredValue(listPrice) {
			return fmt.Errorf("--price must be between 1 and %d", validate.MaxDeclaredValue)
		}
		if !validate.ReleaseYear(listReleaseYear) {
			return fmt.Errorf("--release-year must be 0 or a model year")
		}
		out := cmd.OutOrStdout()
		if pricing.UsesFixedPricing(listCategory) {
			fmt.Fprintf(out, "%q is priced with a fixed phone package; use `devicecover phone --brand`\n", listCategory)
			return nil
		}
		all := pricing.CalculateAllQuotes("", listPrice, listCategory, listReleaseYear, time.Now())
		if outputJSON {
			return writeJSON(out, all)
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COVERAGE\tANNUAL\tMONTHLY\tDEDUCTIBLE\tCLAIMS\tLIMIT")
		for _, c := range pricing.CoverageTypes {
			q := all[c]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", c,
				pricing.FormatPrice(q.AnnualPremium), pricing.FormatPrice(q.MonthlyPremium),
				deductibleText(q.Deductible), q.Limits.MaxClaims, pricing.FormatPrice(q.Limits.MaxAmount))
		}
		return tw.Flush()
	},
}

var phoneCmd = &cobra.Command{
	Use:   "phone",
	Short: "Show the fixed package for a phone brand",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if phoneBrand == "" {
			pkgs := pricing.PhonePackages()
			if outputJSON {
				return writeJSON(out, pkgs)
			}
			for _, p := range pkgs {
				writePackage(out, p)
			}
			return nil
		}
		p := pricing.GetPhonePackage(phoneBrand)
		if outputJSON {
			return writeJSON(out, p)
		}
		writePackage(out, p)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{quoteCmd, quotesCmd, phoneCmd} {
		c.Flags().BoolVar(&outputJSON, "json", false, "print JSON instead of a table")
	}

	quoteCmd.Flags().Float64Var(&quoteValue, "value", 0, "declared device value")
	quoteCmd.Flags().StringVar(&quoteCategory, "category", "", "device category (laptop, tablet, watch, ...)")
	quoteCmd.Flags().IntVar(&quoteAge, "age", 0, "device age in months")
	quoteCmd.Flags().StringVar(&quoteCoverage, "coverage", string(pricing.FullCoverage), "coverage type")
	quoteCmd.Flags().IntVar(&quoteTerm, "term", 0, "prepaid term in years (1-3)")
	_ = quoteCmd.MarkFlagRequired("value")
	_ = quoteCmd.MarkFlagRequired("category")

	quotesCmd.Flags().Float64Var(&listPrice, "price", 0, "market price")
	quotesCmd.Flags().StringVar(&listCategory, "category", "", "device category")
	quotesCmd.Flags().IntVar(&listReleaseYear, "release-year", 0, "release year (0 = unknown)")
	_ = quotesCmd.MarkFlagRequired("price")
	_ = quotesCmd.MarkFlagRequired("category")

	phoneCmd.Flags().StringVar(&phoneBrand, "brand", "", "phone brand; empty lists both packages")
}

func deductibleText(d pricing.Deductible) string {
	if d.Type == pricing.DeductibleFixed {
		return pricing.FormatPrice(d.Value)
	}
	return fmt.Sprintf("%g%%", d.Value)
}

func writePackage(w io.Writer, p pricing.PhonePackage) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.Type)
	fmt.Fprintf(w, "  %s / month, %s / year\n", pricing.FormatPrice(p.MonthlyPrice), pricing.FormatPrice(p.AnnualPrice))
	fmt.Fprintf(w, "  deductible %s, up to %d claims\n", deductibleText(p.Deductible), p.MaxClaims)
	for _, f := range p.Features {
		fmt.Fprintf(w, "  - %s\n", f)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
