package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigPath  = "~/.config/fcpbridge/config.toml"
	projectConfigName  = "fcpbridge.toml"
	defaultLogDir      = "~/.local/share/fcpbridge/logs"
	defaultFFprobe     = "ffprobe"
	defaultFFmpeg      = "ffmpeg"
	defaultFlavor      = "premiere"
	defaultSequence    = "Auto-Editor Media Group"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	envFFprobeOverride = "FCPBRIDGE_FFPROBE"
	envFFmpegOverride  = "FCPBRIDGE_FFMPEG"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			TempDir: defaultTempDir(),
		},
		Tools: Tools{
			FFprobe: defaultFFprobe,
			FFmpeg:  defaultFFmpeg,
		},
		Export: Export{
			Flavor:       defaultFlavor,
			SequenceName: defaultSequence,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultTempDir() string {
	return filepath.Join(os.TempDir(), "fcpbridge")
}
