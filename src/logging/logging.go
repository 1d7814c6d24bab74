// Package logging builds the zap loggers used across the module from a
// small TOML-configurable surface: level, encoding and an strftime-style
// timestamp format.
package logging

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lestrrat-go/strftime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects how log output is produced. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `toml:"level"`
	// Encoding is console or json.
	Encoding string `toml:"encoding"`
	// TimeFormat is an strftime pattern for timestamps.
	TimeFormat string `toml:"time_format"`
}

// DefaultConfig returns the config used when no file is present.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Encoding:   "console",
		TimeFormat: "%Y-%m-%d %H:%M:%S",
	}
}

// LoadConfig reads a TOML config file, filling unset fields from the
// defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// New builds a logger writing to stderr according to cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	timePattern, err := strftime.New(cfg.TimeFormat)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(timePattern.FormatString(t))
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core), nil
}
