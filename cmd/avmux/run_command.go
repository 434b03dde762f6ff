package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"avmux/internal/batch"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags batchFlags
	var backend string
	var continueOnError bool
	var verify bool
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Mux every movie/sound pair into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			base := *loaded
			if b := strings.ToLower(strings.TrimSpace(backend)); b != "" {
				base.Encoding.Backend = b
			}
			if cmd.Flags().Changed("continue-on-error") {
				base.Batch.ContinueOnError = continueOnError
			}
			if cmd.Flags().Changed("verify") {
				base.Batch.VerifyOutput = verify
			}
			cfg, err := flags.apply(&base)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			logger, err := ctx.logger(stderr)
			if err != nil {
				return err
			}

			opts := batch.Options{Logger: logger}
			var progress *progressObserver
			if !noProgress && shouldColorize(stderr) {
				progress = newProgressObserver(stderr)
				opts.Observer = progress
			}

			report, runErr := batch.Run(cmd.Context(), cfg, opts)
			if progress != nil {
				progress.close()
			}

			out := cmd.OutOrStdout()
			if len(report.Results) > 0 {
				fmt.Fprintln(out, renderReport(report))
			}
			fmt.Fprintln(out, reportSummary(report))
			return runErr
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&backend, "backend", "", "Mux backend (exec, ffmpeg-go)")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Attempt every pair even after a failure")
	cmd.Flags().BoolVar(&verify, "verify", false, "Probe each output with ffprobe after muxing")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}
