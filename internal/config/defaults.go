package config

const (
	defaultConfigPath    = "~/.config/avmux/config.toml"
	defaultMovieDir      = "movie"
	defaultSoundDir      = "sound"
	defaultOutputDir     = "outcome"
	defaultOrder         = "name"
	defaultCollation     = "und"
	defaultBackend       = "exec"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultHistory       = true
	defaultLogFile       = true
)

// Recognised values for pairing.order.
var pairingOrders = []string{"name", "collate", "listing"}

// Recognised values for encoding.backend.
var encodingBackends = []string{"exec", "ffmpeg-go"}

var (
	logFormats = []string{"console", "json"}
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
)

// Default returns a Config populated with repository defaults. The batch
// directories default to movie/, sound/ and outcome/ under the working
// directory. Binary names stay empty so normalize can apply the environment
// overrides before falling back to ffmpeg and ffprobe on PATH.
func Default() Config {
	return Config{
		Paths: Paths{
			MovieDir:  defaultMovieDir,
			SoundDir:  defaultSoundDir,
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir(),
		},
		Pairing: Pairing{
			Order:     defaultOrder,
			Collation: defaultCollation,
		},
		Encoding: Encoding{
			Backend: defaultBackend,
		},
		History: History{
			Enabled: defaultHistory,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			File:   defaultLogFile,
		},
	}
}
