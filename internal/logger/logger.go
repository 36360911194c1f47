// Package logger wraps zap behind a small interface so the rest of the
// codebase never imports zap directly.
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)

	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})

	Sync() error
}

// Field constructors re-exported so callers don't need a zap import.
func String(key, val string) zap.Field            { return zap.String(key, val) }
func Int(key string, val int) zap.Field           { return zap.Int(key, val) }
func Int64(key string, val int64) zap.Field       { return zap.Int64(key, val) }
func Duration(key string, d time.Duration) zap.Field { return zap.Duration(key, d) }
func Err(err error) zap.Field                     { return zap.Error(err) }

type zapLogger struct {
	base    *zap.Logger
	sugared *zap.SugaredLogger
}

// New builds a Logger. pretty enables the colored development encoder;
// otherwise JSON production output is used.
func New(level string, pretty bool) Logger {
	var cfg zap.Config
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	base, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		panic(err)
	}

	return &zapLogger{base: base, sugared: base.Sugar()}
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.base.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.base.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.base.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.base.Error(msg, fields...) }

func (l *zapLogger) Infof(template string, args ...interface{})  { l.sugared.Infof(template, args...) }
func (l *zapLogger) Warnf(template string, args ...interface{})  { l.sugared.Warnf(template, args...) }
func (l *zapLogger) Errorf(template string, args ...interface{}) { l.sugared.Errorf(template, args...) }
func (l *zapLogger) Fatalf(template string, args ...interface{}) { l.sugared.Fatalf(template, args...) }

func (l *zapLogger) Sync() error { return l.base.Sync() }

// Nop returns a logger that discards everything. Used in tests.
func Nop() Logger {
	base := zap.NewNop()
	return &zapLogger{base: base, sugared: base.Sugar()}
}
