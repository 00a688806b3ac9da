package main

import (
	"fmt"
	"io"

	"github.com/jonathan/strongpass/internal/optimal"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/repair"
	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count [password...]",
	Short: "Print the edit count for each password",
	Long:  "Prints the planner's step count next to the exact minimum edit count. Passwords come from the arguments, or one per line on stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := readInputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return runCount(cmd.OutOrStdout(), inputs, settings.PolicyValue())
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func runCount(out io.Writer, inputs []string, p policy.Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%5s %7s  %s\n", "STEPS", "MINIMUM", "PASSWORD")
	for _, input := range inputs {
		fmt.Fprintf(out, "%5d %7d  %q\n",
			repair.MinimumEdits(input, p), optimal.MinimumEdits(input, p), input)
	}
	return nil
}
