// Package logger wraps zap behind the small interface the rest of w3approve
// logs through.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a key/value structured logger.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, fields ...any)
}

type zapSugar struct {
	*zap.SugaredLogger
}

func (l zapSugar) Debug(msg string, fields ...any) {
	l.SugaredLogger.Debugw(msg, fields...)
}

func (l zapSugar) Info(msg string, fields ...any) {
	l.SugaredLogger.Infow(msg, fields...)
}

func (l zapSugar) Error(msg string, fields ...any) {
	l.SugaredLogger.Errorw(msg, fields...)
}

// New builds a console logger writing to stderr at the given level
// ("debug", "info", "error", ...). Unknown levels fall back to info.
func New(level string) Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if level != "" {
		if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
			cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		}
	}
	log, err := cfg.Build()
	if err != nil {
		return Nop()
	}
	return zapSugar{log.Sugar()}
}

// FromZap adapts an existing zap logger.
func FromZap(l *zap.Logger) Logger {
	if l == nil {
		return Nop()
	}
	return zapSugar{l.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return zapSugar{zap.NewNop().Sugar()}
}
