package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	appName = "coinscout"
	version = "v1.2.0"
)

var (
	configPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Crypto investment-worthiness scanner",
		Version: version,
		Long: `coinscout scores crypto assets for investment worthiness, adjusts the
scores for the current market cycle phase, and ranks the best
opportunities.

Set COINMARKETCAP_API_KEY for live market data.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to yaml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error), overrides config")

	rootCmd.AddCommand(newScanCmd())    // Primary functionality
	rootCmd.AddCommand(newAnalyzeCmd()) // Single-asset analysis
	rootCmd.AddCommand(newMonitorCmd()) // Continuous scanning
	rootCmd.AddCommand(newServeCmd())   // Ops endpoints

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging configures the global logger. Interactive terminals get
// the pretty console writer; pipes and service managers get plain JSON.
func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if level == "" {
		return
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, keeping default")
		return
	}
	zerolog.SetGlobalLevel(parsed)
}

// addScanFlags attaches the flags shared by scan and monitor.
func addScanFlags(flags *pflag.FlagSet) {
	flags.Int("limit", 0, "Number of listings to fetch (0 uses config)")
	flags.Int("top", 0, "Number of opportunities to keep (0 uses config)")
	flags.String("artifacts", "", "Directory for JSON scan artifacts (empty disables)")
}
