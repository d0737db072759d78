// Package cmd provides the devicecover CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devicecover",
	Short: "Device insurance quotes",
	Long: `devicecover prices device insurance: formula quotes for laptops, tablets,
watches and the rest of the catalog, fixed packages for phones.

Examples:
  devicecover serve
  devicecover quote --value 25000 --category laptop --age 8 --coverage FULL_COVERAGE
  devicecover quotes --price 42000 --category tablet --release-year 2024
  devicecover phone --brand Samsung`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(quotesCmd)
	rootCmd.AddCommand(phoneCmd)
}
