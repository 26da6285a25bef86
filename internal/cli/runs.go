package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	StoreOptions
	Namespace string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Long: `List the runs in the store, oldest first.

Examples:
  mutest runs --db runs.db
  mutest runs --db runs.db --namespace mu --format table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "list only runs of this namespace")

	return cmd
}

func listRuns(opts *RunsOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	st, err := opts.openStore(cfg)
	if err != nil {
		return err
	}
	if st == nil {
		return NewExitError(ExitCommandError, "no database: pass --db or set store.path")
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := st.ReadRuns(ctx, opts.Namespace)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	f := opts.formatter(cmd)
	switch f.Format {
	case "json":
		return f.Success(runs)
	case "table":
		t := table.NewWriter()
		t.SetOutputMirror(f.Writer)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Seq", "ID", "Namespace", "Kind", "Label", "Created"})
		for _, run := range runs {
			t.AppendRow(table.Row{run.Seq, run.ID, run.Namespace, run.Kind, run.Label, run.CreatedAt.Format(time.RFC3339)})
		}
		t.Render()
	default:
		for _, run := range runs {
			fmt.Fprintf(f.Writer, "%4d %-36s %-12s %-4s %s %s\n",
				run.Seq, run.ID, run.Namespace, run.Kind, run.CreatedAt.Format(time.RFC3339), run.Label)
		}
	}
	return nil
}
