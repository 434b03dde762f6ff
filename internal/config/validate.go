package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePairing(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.MovieDir == "" {
		return errors.New("paths.movie_dir must be set")
	}
	if c.Paths.SoundDir == "" {
		return errors.New("paths.sound_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.MovieDir == c.Paths.SoundDir {
		return fmt.Errorf("paths.movie_dir and paths.sound_dir must differ (both %s)", c.Paths.MovieDir)
	}
	if c.Paths.OutputDir == c.Paths.MovieDir || c.Paths.OutputDir == c.Paths.SoundDir {
		return fmt.Errorf("paths.output_dir %s must not be an input directory", c.Paths.OutputDir)
	}
	return nil
}

func (c *Config) validatePairing() error {
	if !slices.Contains(pairingOrders, c.Pairing.Order) {
		return fmt.Errorf("pairing.order must be one of %s, got %q", strings.Join(pairingOrders, ", "), c.Pairing.Order)
	}
	if _, err := language.Parse(c.Pairing.Collation); err != nil {
		return fmt.Errorf("pairing.collation %q is not a BCP 47 language tag: %w", c.Pairing.Collation, err)
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if !slices.Contains(encodingBackends, c.Encoding.Backend) {
		return fmt.Errorf("encoding.backend must be one of %s, got %q", strings.Join(encodingBackends, ", "), c.Encoding.Backend)
	}
	if c.Encoding.FFmpegBinary == "" {
		return errors.New("encoding.ffmpeg_binary must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %s, got %q", strings.Join(logFormats, ", "), c.Logging.Format)
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %s, got %q", strings.Join(logLevels, ", "), c.Logging.Level)
	}
	return nil
}
