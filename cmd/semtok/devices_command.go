package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"semtok/internal/device"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List discovered accelerator devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			override := 0
			if cfg, err := ctx.ensureConfig(); err == nil {
				override = cfg.Pipeline.Devices
			}

			devices, err := device.Discover(override)
			if err != nil {
				return fmt.Errorf("discover devices: %w", err)
			}
			if len(devices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accelerator devices found")
				return nil
			}

			rows := make([][]string, 0, len(devices))
			for _, dev := range devices {
				rows = append(rows, []string{strconv.Itoa(dev.ID), dev.Node})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Node"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}
}
