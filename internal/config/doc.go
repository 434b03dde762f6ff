// Package config loads, normalizes, and validates avmux configuration data.
//
// It supplies repository defaults (movie/, sound/ and outcome/ relative to the
// working directory), expands user paths including tilde shortcuts, reads TOML
// files, and honours the AVMUX_FFMPEG and AVMUX_FFPROBE environment fallbacks.
//
// Always obtain settings through this package so the batch workflow receives
// absolute directories, canonical enum values, and clear validation errors.
package config
