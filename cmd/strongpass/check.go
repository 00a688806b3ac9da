package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/strongpass/internal/observability"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/types"
	"github.com/jonathan/strongpass/internal/validation"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [password...]",
	Short: "Check passwords against the policy",
	Long:  "Lists every policy violation of each password. Passwords come from the arguments, or one per line on stdin. Exits non-zero when any password is not compliant.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readInputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return runCheck(cmd.OutOrStdout(), inputs, settings.PolicyValue(), checkJSON, settings.Verbose)
	},
}

var checkJSON bool

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(checkCmd)
}

// checkResult is the JSON form of one check
type checkResult struct {
	Input      string            `json:"input"`
	Compliant  bool              `json:"compliant"`
	Violations []types.Violation `json:"violations"`
}

// NonCompliantError reports how many checked passwords failed the policy
type NonCompliantError struct {
	Failed int
	Total  int
}

func (e *NonCompliantError) Error() string {
	return fmt.Sprintf("%d of %d passwords are not compliant", e.Failed, e.Total)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runCheck(out io.Writer, inputs []string, p policy.Policy, asJSON, detailed bool) error {
	printer := observability.NewPrinter(out)
	results := make([]checkResult, 0, len(inputs))
	failed := 0

	for _, input := range inputs {
		violations := validation.Check(input, p)
		compliant := violations.Empty()
		if !compliant {
			failed++
		}
		results = append(results, checkResult{Input: input, Compliant: compliant, Violations: violations.Violations})

		if asJSON {
			continue
		}
		if compliant {
			printer.PrintStatus(true, fmt.Sprintf("%q", input))
			continue
		}
		printer.PrintStatus(false, fmt.Sprintf("%q (%d violations)", input, len(violations.Violations)))
		if detailed {
			printer.PrintViolations(violations)
			continue
		}
		for _, v := range violations.Violations {
			fmt.Fprintf(out, "  - %s: %s\n", v.Type, v.Details)
		}
	}

	if asJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}

	if failed > 0 {
		return &NonCompliantError{Failed: failed, Total: len(inputs)}
	}
	return nil
}
