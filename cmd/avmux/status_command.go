package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"avmux/internal/history"
	"avmux/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check dependencies, directories and the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			configMsg := ctx.configPath
			if !ctx.configSeen {
				configMsg += " (not found, using defaults)"
			}
			lines = append(lines,
				renderStatusLine("Config", statusInfo, configMsg, colorize),
				renderStatusLine("Backend", statusInfo, cfg.Encoding.Backend, colorize),
				renderStatusLine("Order", statusInfo, cfg.Pairing.Order, colorize),
				renderStatusLine("Continue on error", statusInfo, yesNo(cfg.Batch.ContinueOnError), colorize),
				renderStatusLine("Verify outputs", statusInfo, yesNo(cfg.Batch.VerifyOutput), colorize),
			)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cfg), colorize)...)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			lines = append(lines, directoryLines(preflight.RunAll(cfg), colorize)...)

			if cfg.History.Enabled {
				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Last Run", colorize)...)
				lines = append(lines, lastRunLine(cmd, cfg.HistoryPath(), colorize))
			}

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func lastRunLine(cmd *cobra.Command, path string, colorize bool) string {
	store, err := history.Open(path)
	if err != nil {
		return renderStatusLine("History", statusWarn, err.Error(), colorize)
	}
	defer store.Close()

	runs, err := store.RecentRuns(cmd.Context(), 1)
	if err != nil {
		return renderStatusLine("History", statusWarn, err.Error(), colorize)
	}
	if len(runs) == 0 {
		return renderStatusLine("History", statusInfo, "no runs recorded", colorize)
	}
	run := runs[0]
	kind := statusOK
	if run.Status != history.StatusSucceeded {
		kind = statusError
	}
	msg := fmt.Sprintf("%s %s, %d/%d pairs done (%s)",
		shortID(run.ID), run.Status, run.DoneCount, run.PairCount, humanize.Time(run.StartedAt))
	return renderStatusLine("History", kind, msg, colorize)
}
