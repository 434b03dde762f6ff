package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"avmux/internal/config"
)

// batchFlags are the per-invocation overrides shared by run and plan.
type batchFlags struct {
	movieDir  string
	soundDir  string
	outputDir string
	order     string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.movieDir, "movie-dir", "", "Directory holding the video files")
	cmd.Flags().StringVar(&f.soundDir, "sound-dir", "", "Directory holding the audio files")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "Directory receiving numbered outputs")
	cmd.Flags().StringVar(&f.order, "order", "", "Ordering rule before pairing (name, collate, listing)")
}

// apply returns a copy of cfg with the flag overrides applied and validated.
func (f *batchFlags) apply(cfg *config.Config) (*config.Config, error) {
	out := *cfg
	for _, o := range []struct {
		flag  string
		value string
		dst   *string
	}{
		{"--movie-dir", f.movieDir, &out.Paths.MovieDir},
		{"--sound-dir", f.soundDir, &out.Paths.SoundDir},
		{"--output-dir", f.outputDir, &out.Paths.OutputDir},
	} {
		if strings.TrimSpace(o.value) == "" {
			continue
		}
		expanded, err := config.ExpandPath(strings.TrimSpace(o.value))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.flag, err)
		}
		*o.dst = expanded
	}
	if order := strings.ToLower(strings.TrimSpace(f.order)); order != "" {
		out.Pairing.Order = order
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
