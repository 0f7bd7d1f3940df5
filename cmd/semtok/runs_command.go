package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"semtok/internal/manifest"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent tokenization runs from the manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := manifest.Open(cfg.Paths.ManifestDir)
			if err != nil {
				return fmt.Errorf("open manifest: %w", err)
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				summary, err := store.Summarize(cmd.Context(), run.ID)
				if err != nil {
					return fmt.Errorf("summarize run %s: %w", run.ID, err)
				}
				rows = append(rows, []string{
					run.ID,
					string(run.Status),
					run.StartedAt.Local().Format(time.DateTime),
					strconv.Itoa(run.Devices),
					strconv.Itoa(run.TotalItems),
					strconv.Itoa(summary.Completed),
					strconv.Itoa(summary.Failed),
					strconv.FormatInt(summary.TotalTokens, 10),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Status", "Started", "Devices", "Items", "Completed", "Failed", "Tokens"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show")
	return cmd
}
