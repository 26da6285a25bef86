package cli

import (
	"github.com/spf13/cobra"
)

// SummarizeOptions holds flags for the summarize command.
type SummarizeOptions struct {
	*RootOptions
	Failures bool
}

// NewSummarizeCommand creates the summarize command.
func NewSummarizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummarizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summarize <report.json>",
		Short: "Summarize a structured test report",
		Long: `Print per-group pass/fail/abort counts for a report written by
"mutest test --report".

Examples:
  mutest summarize mu.json
  mutest summarize mu.json --failures
  mutest summarize mu.json --format table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nr, err := readNamespaceReport(args[0])
			if err != nil {
				return err
			}
			return writeTestOutput(opts.formatter(cmd), nr, opts.Failures)
		},
	}

	cmd.Flags().BoolVar(&opts.Failures, "failures", false, "print failing tests after the summary")

	return cmd
}
