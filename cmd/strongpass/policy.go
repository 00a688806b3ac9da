package main

import (
	"fmt"
	"io"

	"github.com/jonathan/strongpass/internal/config"
	"github.com/jonathan/strongpass/internal/observability"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/spf13/cobra"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective password policy",
	Long:  "Prints the policy after applying defaults, STRONGPASS_* environment variables, the config file and flags.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		runPolicy(cmd.OutOrStdout(), settings.PolicyValue())
		return nil
	},
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a config file",
	Long:  "Checks a JSON or YAML config file against the config schema and the policy rules.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPolicyValidate(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	policyCmd.AddCommand(policyValidateCmd)
	rootCmd.AddCommand(policyCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runPolicy(out io.Writer, p policy.Policy) {
	observability.NewPrinter(out).PrintPolicy(p)
	fmt.Fprintf(out, "Policy: %s\n", p)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runPolicyValidate(out io.Writer, path string) error {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	p := merged.PolicyValue()
	if err := p.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	observability.NewPrinter(out).PrintStatus(true, fmt.Sprintf("%s: %s", path, p))
	return nil
}
