package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"avmux/internal/batch"
	"avmux/internal/config"
	"avmux/internal/media/ffprobe"
	"avmux/internal/pairing"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags batchFlags
	var probe bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show how files would be paired without muxing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := flags.apply(base)
			if err != nil {
				return err
			}
			pairs, err := batch.Plan(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(pairs) == 0 {
				fmt.Fprintln(out, "No files to pair")
				return nil
			}
			fmt.Fprintln(out, renderPlan(cmd.Context(), cfg, pairs, probe))
			fmt.Fprintf(out, "%d pairs, ordered by %s\n", len(pairs), cfg.Pairing.Order)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&probe, "probe", false, "Probe input durations with ffprobe")
	return cmd
}

func renderPlan(ctx context.Context, cfg *config.Config, pairs []pairing.Pair, probe bool) string {
	headers := []string{"#", "Video", "Audio", "Output"}
	right := []int{0}
	if probe {
		headers = append(headers, "Video Length", "Audio Length")
		right = append(right, 4, 5)
	}
	rows := make([][]string, 0, len(pairs))
	for _, pair := range pairs {
		row := []string{
			strconv.Itoa(pair.Index + 1),
			filepath.Base(pair.Video),
			filepath.Base(pair.Audio),
			filepath.Base(pair.Output),
		}
		if probe {
			row = append(row,
				probeLength(ctx, cfg.FFprobeBinary(), pair.Video, "video"),
				probeLength(ctx, cfg.FFprobeBinary(), pair.Audio, "audio"),
			)
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, right...)
}

func probeLength(ctx context.Context, binary, path, codecType string) string {
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		return "error"
	}
	if result.StreamCount(codecType) == 0 {
		return "no " + codecType
	}
	return formatSeconds(result.StreamDurationSeconds(codecType))
}
