// Package logger builds the zap logger used for structured run logs and
// bridges gorm's query logging onto it.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ZapLoggerConfig struct {
	Level             string // debug, info, warn or error
	Encoding          string // console or json
	IsDevelopment     bool
	DisableCaller     bool
	DisableStacktrace bool
}

// NewZapLogger writes to stderr so the colored progress lines on stdout stay
// readable when logs are piped elsewhere.
func NewZapLogger(cfg *ZapLoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log encoding %q", cfg.Encoding)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)

	var opts []zap.Option
	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if !cfg.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	if cfg.IsDevelopment {
		opts = append(opts, zap.Development())
	}

	return zap.New(core, opts...), nil
}
