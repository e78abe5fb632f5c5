package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "cgtcalc",
	Short: "Capital gains tax calculator",
	Long: `Capital gains tax calculator that matches buys against sells FIFO,
translates foreign-currency trades into the reporting currency, synthesizes
implied currency trades for foreign-denominated proceeds, and applies the
discount method with carried capital losses.

Trades are read from an Interactive Brokers activity export and exchange
rates from an RBA reference-rate file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
