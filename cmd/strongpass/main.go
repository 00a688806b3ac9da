// Package main provides the strongpass CLI, which checks passwords against a
// strong password policy and computes the edits needed to repair them.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/strongpass/internal/config"
	"github.com/jonathan/strongpass/internal/observability"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath    string
	flagMinLength int
	flagMaxLength int
	flagMaxRepeat int
	verbose       bool

	// Populated by PersistentPreRunE
	settings *config.Config
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "strongpass",
	Short: "Strong password checker",
	Long: "strongpass checks passwords against a strong password policy (length bounds, " +
		"no long runs of one character, lowercase, uppercase and digit) and computes " +
		"the minimum number of single-character edits that makes them compliant.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		resolved, err := resolveSettings()
		if err != nil {
			return err
		}
		settings = resolved

		logger, err = observability.NewLogger(settings.Verbose)
		return err
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	flags.IntVar(&flagMinLength, "min-length", 0, fmt.Sprintf("Minimum password length (default %d)", policy.DefaultMinLength))
	flags.IntVar(&flagMaxLength, "max-length", 0, fmt.Sprintf("Maximum password length (default %d)", policy.DefaultMaxLength))
	flags.IntVar(&flagMaxRepeat, "max-repeat", 0, fmt.Sprintf("Longest allowed run of one character (default %d)", policy.DefaultMaxRepeat))
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print detailed output and debug logs")
}

// resolveSettings layers defaults, environment, config file and flags.
func resolveSettings() (*config.Config, error) {
	return config.Resolve(configPath, config.Config{
		Policy: config.PolicyConfig{
			MinLength: flagMinLength,
			MaxLength: flagMaxLength,
			MaxRepeat: flagMaxRepeat,
		},
		Workers: batchWorkers,
		Verbose: verbose,
	})
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
