package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Prepare returns the program logger. Info and debug go to stdout, errors to
// stderr, and everything at the selected level is copied to Destination when set.
func (c LogConfig) Prepare() (*zap.Logger, error) {
	consoleEncoder := func(stream *os.File) zapcore.Encoder {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeCaller = nil
		if term.IsTerminal(int(stream.Fd())) {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
			ec.TimeKey = zapcore.OmitKey
		} else {
			ec.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		return zapcore.NewConsoleEncoder(ec)
	}

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	var (
		minLevel zapcore.Level
		cores    []zapcore.Core
	)
	switch c.Level {
	case LogNone:
		return zap.NewNop(), nil
	case LogDebug:
		minLevel = zapcore.DebugLevel
	case LogNormal, "":
		minLevel = zapcore.InfoLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", c.Level)
	}

	cores = append(cores,
		zapcore.NewCore(consoleEncoder(os.Stdout), zapcore.Lock(os.Stdout),
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return minLevel <= lvl && lvl < zapcore.ErrorLevel
			})),
		zapcore.NewCore(consoleEncoder(os.Stderr), zapcore.Lock(os.Stderr), highPriority),
	)

	if c.Destination != "" {
		f, err := os.OpenFile(c.Destination, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("unable to access log destination (%s): %w", c.Destination, err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(f),
			zap.NewAtomicLevelAt(minLevel),
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named("sitetoc"), nil
}
