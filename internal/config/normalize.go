package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePairing()
	c.normalizeEncoding()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.MovieDir) == "" {
		c.Paths.MovieDir = defaultMovieDir
	}
	if c.Paths.MovieDir, err = expandPath(strings.TrimSpace(c.Paths.MovieDir)); err != nil {
		return fmt.Errorf("paths.movie_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SoundDir) == "" {
		c.Paths.SoundDir = defaultSoundDir
	}
	if c.Paths.SoundDir, err = expandPath(strings.TrimSpace(c.Paths.SoundDir)); err != nil {
		return fmt.Errorf("paths.sound_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePairing() {
	c.Pairing.Order = strings.ToLower(strings.TrimSpace(c.Pairing.Order))
	if c.Pairing.Order == "" {
		c.Pairing.Order = defaultOrder
	}
	c.Pairing.Collation = strings.TrimSpace(c.Pairing.Collation)
	if c.Pairing.Collation == "" {
		c.Pairing.Collation = defaultCollation
	}
}

func (c *Config) normalizeEncoding() {
	c.Encoding.Backend = strings.ToLower(strings.TrimSpace(c.Encoding.Backend))
	if c.Encoding.Backend == "" {
		c.Encoding.Backend = defaultBackend
	}
	c.Encoding.FFmpegBinary = strings.TrimSpace(c.Encoding.FFmpegBinary)
	if c.Encoding.FFmpegBinary == "" {
		if value, ok := os.LookupEnv("AVMUX_FFMPEG"); ok && strings.TrimSpace(value) != "" {
			c.Encoding.FFmpegBinary = strings.TrimSpace(value)
		} else {
			c.Encoding.FFmpegBinary = defaultFFmpegBinary
		}
	}
	c.Encoding.FFprobeBinary = strings.TrimSpace(c.Encoding.FFprobeBinary)
	if c.Encoding.FFprobeBinary == "" {
		if value, ok := os.LookupEnv("AVMUX_FFPROBE"); ok && strings.TrimSpace(value) != "" {
			c.Encoding.FFprobeBinary = strings.TrimSpace(value)
		} else {
			c.Encoding.FFprobeBinary = defaultFFprobeBinary
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
