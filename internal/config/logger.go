package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig selects the level and sink of the program log. Level is one
// of none, normal or debug; an empty Destination logs to the console.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Destination string `yaml:"destination,omitempty"`
	Mode        string `yaml:"mode,omitempty"`
}

func (conf *LoggingConfig) validate() error {
	switch conf.Level {
	case "none", "normal", "debug":
	default:
		return fmt.Errorf("logging: level must be one of none, normal, debug, got %q", conf.Level)
	}
	switch conf.Mode {
	case "", "append", "overwrite":
	default:
		return fmt.Errorf("logging: mode must be append or overwrite, got %q", conf.Mode)
	}
	return nil
}

// Prepare returns the configured zap logger. debug forces debug level.
func (conf *LoggingConfig) Prepare(debug bool) (*zap.Logger, error) {
	level := conf.Level
	if debug {
		level = "debug"
	}

	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "normal":
		lvl = zapcore.InfoLevel
	default:
		return zap.NewNop(), nil
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil

	var sink zapcore.WriteSyncer
	if len(conf.Destination) == 0 {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
		sink = zapcore.Lock(os.Stderr)
	} else {
		flags := os.O_CREATE | os.O_WRONLY
		if conf.Mode == "append" {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(conf.Destination, flags, 0644)
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		sink = zapcore.Lock(f)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), sink, zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}
