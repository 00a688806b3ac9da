package main

import (
	"fmt"
	"io"

	"github.com/jonathan/strongpass/internal/observability"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/repair"
	"github.com/jonathan/strongpass/internal/rendering"
	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix [password...]",
	Short: "Repair passwords with the fewest edits the planner finds",
	Long:  "Prints the number of single-character edits and a compliant password for each input. Passwords come from the arguments, or one per line on stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readInputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return runFix(cmd.OutOrStdout(), inputs, settings.PolicyValue(), fixOptions{
			diff:  fixDiff,
			trace: fixTrace || settings.Verbose,
		})
	},
}

var (
	fixDiff  bool
	fixTrace bool
)

func init() {
	fixCmd.Flags().BoolVar(&fixDiff, "diff", false, "Show a character diff between input and repaired password")
	fixCmd.Flags().BoolVar(&fixTrace, "trace", false, "Print the edit log")
	rootCmd.AddCommand(fixCmd)
}

type fixOptions struct {
	diff  bool
	trace bool
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runFix(out io.Writer, inputs []string, p policy.Policy, opts fixOptions) error {
	if err := p.Validate(); err != nil {
		return err
	}
	printer := observability.NewPrinter(out)

	for _, input := range inputs {
		result := repair.Run(input, p)
		printer.PrintStatus(result.Steps == 0,
			fmt.Sprintf("%q -> %q (%d steps)", input, result.Password, result.Steps))
		if opts.diff {
			fmt.Fprintf(out, "  diff: %s\n", rendering.DiffColor(input, result.Password))
		}
		if opts.trace {
			printer.PrintEdits(result.Edits)
		}
	}
	return nil
}
