package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coinscout/coinscout/internal/application/pipeline"
	"github.com/coinscout/coinscout/internal/config"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one ranking scan and print the top opportunities",
		Long: `Fetches market listings, scores every asset, adjusts for the current
BTC dominance phase, and prints the highest-ranked opportunities.`,
		RunE: runScan,
	}
	addScanFlags(cmd.Flags())
	return cmd
}

// scanOverrides translates scan/monitor flags into config overrides.
func scanOverrides(cmd *cobra.Command) func(*config.Config) {
	limit, _ := cmd.Flags().GetInt("limit")
	top, _ := cmd.Flags().GetInt("top")
	artifacts, _ := cmd.Flags().GetString("artifacts")

	return func(cfg *config.Config) {
		if limit > 0 {
			cfg.Scan.Limit = limit
		}
		if top > 0 {
			cfg.Scan.TopK = top
		}
		if cmd.Flags().Changed("artifacts") {
			cfg.Scan.ArtifactDir = artifacts
		}
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	application, err := buildApp(configPath, scanOverrides(cmd))
	if err != nil {
		return err
	}

	result, err := application.scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printScanResult(result)
	return nil
}

func printScanResult(result *pipeline.ScanResult) {
	fmt.Printf("Market cycle: %s (BTC dominance %.1f%%, confidence %s)\n",
		result.Dominance.Phase.Name,
		result.Dominance.CurrentDominance,
		result.Dominance.Recommendation.Confidence)
	fmt.Printf("Guidance: %s\n", result.Dominance.Recommendation.Action)
	fmt.Printf("Scanned %d assets, dropped %d, showing top %d\n\n",
		result.TotalAssets, result.DroppedAssets, len(result.Opportunities))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSYMBOL\tSCORE\tADJUSTED\tRISK\tPOTENTIAL\tMATURITY\tCOINBASE")
	for i, opp := range result.Opportunities {
		onCoinbase := "no"
		if opp.OnCoinbase {
			onCoinbase = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%s\t%.2f\t%s\t%s\n",
			i+1,
			opp.Snapshot.Symbol,
			opp.InvestmentScore,
			opp.AdjustedScore,
			opp.Risk.Level,
			opp.PotentialReturn,
			opp.Metrics.Maturity.Category,
			onCoinbase)
	}
	w.Flush()
}
