package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"semtok/internal/logging"
	"semtok/internal/worklist"
)

func newWorklistCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "worklist",
		Short: "Preview the work items discovered under the dataset directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			result, err := worklist.Discover(cfg.Paths.DatasetDir, logging.NewNop())
			if err != nil {
				return fmt.Errorf("discover worklist: %w", err)
			}

			perGroup := make(map[string]int)
			for _, item := range result.Items {
				perGroup[item.Group]++
			}
			groups := make([]string, 0, len(perGroup))
			for group := range perGroup {
				groups = append(groups, group)
			}
			sort.Strings(groups)

			rows := make([][]string, 0, len(groups))
			for _, group := range groups {
				rows = append(rows, []string{group, strconv.Itoa(perGroup[group])})
			}

			out := cmd.OutOrStdout()
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Group", "Items"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}
			fmt.Fprintf(out, "%d items from %d label files (%d files skipped, %d lines skipped)\n",
				len(result.Items), result.LabelFiles, result.SkippedFiles, result.SkippedLines)
			return nil
		},
	}
}
