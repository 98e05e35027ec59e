package internal

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

type ZapLogger struct {
	s *zap.SugaredLogger
}

func NewZapLogger(s *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{s: s}
}

// NewLogger builds a zap logger for the given environment. Development gets the
// console encoder, everything else JSON. Unknown levels fall back to info.
func NewLogger(env, level string) (*ZapLogger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(z.Sugar()), nil
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *ZapLogger {
	return NewZapLogger(zap.NewNop().Sugar())
}

func (l *ZapLogger) Sync() error { return l.s.Sync() }

func (l *ZapLogger) Info(args ...interface{})                       { l.s.Info(args...) }
func (l *ZapLogger) Infof(format string, args ...interface{})       { l.s.Infof(format, args...) }
func (l *ZapLogger) Infow(msg string, keysAndValues ...interface{}) { l.s.Infow(msg, keysAndValues...) }
func (l *ZapLogger) Warn(args ...interface{})                       { l.s.Warn(args...) }
func (l *ZapLogger) Warnf(format string, args ...interface{})       { l.s.Warnf(format, args...) }
func (l *ZapLogger) Error(args ...interface{})                      { l.s.Error(args...) }
func (l *ZapLogger) Errorf(format string, args ...interface{})      { l.s.Errorf(format, args...) }
func (l *ZapLogger) Debug(args ...interface{})                      { l.s.Debug(args...) }
func (l *ZapLogger) Debugf(format string, args ...interface{})      { l.s.Debugf(format, args...) }
func (l *ZapLogger) Fatal(args ...interface{})                      { l.s.Fatal(args...) }
func (l *ZapLogger) Fatalf(format string, args ...interface{})      { l.s.Fatalf(format, args...) }
