package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coinscout/coinscout/internal/domain/cycle"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Analyze a single asset in depth",
		Long: `Fetches a live quote for one symbol, scores it, and prints the full
breakdown: sub-metrics, weighted score components, risk grade, return
potential, and the cycle adjustment.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}
	cmd.Flags().Bool("json", false, "Print the raw analysis as JSON")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	application, err := buildApp(configPath)
	if err != nil {
		return err
	}

	symbol := strings.ToUpper(args[0])
	analysis, err := application.scanner.AnalyzeSymbol(cmd.Context(), symbol)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", symbol, err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}

	printAnalysis(analysis)
	return nil
}

func printAnalysis(a *cycle.AdjustedAnalysis) {
	s := a.Snapshot
	fmt.Printf("%s (%s)\n", s.Symbol, s.Name)
	fmt.Printf("  Price          $%.4f\n", s.Price)
	fmt.Printf("  Market cap     $%.0f\n", s.MarketCap)
	fmt.Printf("  24h volume     $%.0f\n", s.Volume24h)
	fmt.Println()

	m := a.Metrics
	fmt.Println("Metrics")
	fmt.Printf("  Maturity       %.2f (%s)\n", m.Maturity.Score, m.Maturity.Category)
	fmt.Printf("  Volume health  %.3f (%s, ratio %.3f)\n", m.Volume.Score, m.Volume.Category, m.Volume.Ratio)
	fmt.Printf("  Momentum       %.3f\n", m.Momentum)
	fmt.Printf("  Volatility     %.3f (%s, stddev %.2f)\n", m.Volatility.Score, m.Volatility.Category, m.Volatility.StdDev)
	fmt.Println()

	fmt.Println("Score components")
	names := make([]string, 0, len(a.Components))
	for name := range a.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-14s %+.4f\n", name, a.Components[name])
	}
	fmt.Println()

	fmt.Printf("Investment score  %.2f / 10\n", a.InvestmentScore)
	fmt.Printf("Risk              %s (%.2f)\n", a.Risk.Level, a.Risk.Score)
	fmt.Printf("Potential return  %.2f / 10\n", a.PotentialReturn)
	fmt.Printf("On Coinbase       %v\n", a.OnCoinbase)
	fmt.Println()

	d := a.Dominance
	fmt.Printf("Cycle phase       %s (BTC dominance %.1f%%)\n", d.Phase.Name, d.CurrentDominance)
	fmt.Printf("Adjusted score    %.2f (impact x%.2f)\n", a.AdjustedScore, d.ImpactFor(s.Symbol))
	fmt.Printf("Guidance          %s\n", d.Recommendation.Action)
}
