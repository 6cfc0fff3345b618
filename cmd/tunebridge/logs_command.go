package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tunebridge/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		runID  string
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the log of the latest (or a given) run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if list {
				runs, err := logs.ListRuns(cfg.Paths.LogDir)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No run logs found")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ModifiedAt.Local().Format("2006-01-02 15:04:05"),
						humanBytes(run.Size),
						run.Path,
					})
				}
				fmt.Fprintln(out, renderTable([]column{{title: "Modified"}, {title: "Size", numeric: true}, {title: "Path"}}, rows))
				return nil
			}

			var run logs.RunLog
			if id := strings.TrimSpace(runID); id != "" {
				run, err = logs.ForRun(cfg.Paths.LogDir, id)
			} else {
				run, err = logs.Latest(cfg.Paths.LogDir)
			}
			if err != nil {
				return err
			}

			tail, offset, err := logs.Last(run.Path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			err = logs.Follow(cmd.Context(), run.Path, offset, 0, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().StringVar(&runID, "run", "", "Run id (or prefix) to show instead of the latest")
	cmd.Flags().BoolVar(&list, "list", false, "List run logs instead of printing one")
	return cmd
}
