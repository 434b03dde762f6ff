package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"avmux/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "List past runs or show the pairs of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.HistoryPath()); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				results, err := store.RunResults(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				printRunDetail(out, run, results)
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list (0 for all)")
	return cmd
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			humanize.Time(run.StartedAt),
			run.Backend,
			strconv.Itoa(run.PairCount),
			strconv.Itoa(run.DoneCount),
			strconv.Itoa(run.FailedCount),
			run.Status,
			run.ErrorKind,
		})
	}
	return renderTable([]string{"Run", "Started", "Backend", "Pairs", "Done", "Failed", "Status", "Error"}, rows, 3, 4, 5)
}

func printRunDetail(out io.Writer, run history.Run, results []history.PairResult) {
	fmt.Fprintf(out, "Run:      %s\n", run.ID)
	fmt.Fprintf(out, "Started:  %s (%s)\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))
	fmt.Fprintf(out, "Elapsed:  %s\n", formatElapsed(run.Elapsed()))
	fmt.Fprintf(out, "Backend:  %s\n", run.Backend)
	fmt.Fprintf(out, "Movies:   %s\n", run.MovieDir)
	fmt.Fprintf(out, "Sounds:   %s\n", run.SoundDir)
	fmt.Fprintf(out, "Outputs:  %s\n", run.OutputDir)
	fmt.Fprintf(out, "Status:   %s\n", run.Status)
	if run.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:    [%s] %s\n", run.ErrorKind, run.ErrorMessage)
	}
	if len(results) == 0 {
		return
	}
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			strconv.Itoa(res.Index + 1),
			filepath.Base(res.VideoPath),
			filepath.Base(res.AudioPath),
			filepath.Base(res.OutputPath),
			res.Status,
			formatBytes(res.OutputBytes),
			formatSeconds(res.DurationSeconds),
			formatElapsed(res.Elapsed),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Video", "Audio", "Output", "Status", "Size", "Length", "Time"}, rows, 0, 5, 6, 7))
}
