package preflight

import (
	"avmux/internal/config"
	"avmux/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Movie directory", cfg.Paths.MovieDir, Read),
		CheckDirectoryAccess("Sound directory", cfg.Paths.SoundDir, Read),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, ReadWrite),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir, ReadWrite),
	}
}

// SystemRequirements lists the binaries the configured batch will execute.
// ffprobe is only required when output verification is enabled.
func SystemRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for muxing",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Verifies outputs and probes durations",
			Optional:    !cfg.Batch.VerifyOutput,
		},
	}
}

// CheckSystemDeps evaluates SystemRequirements.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(SystemRequirements(cfg))
}
