// Package logging builds the application's zap logger. Development gets the
// human-readable console encoder, prod gets JSON.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	Base  *zap.Logger
	Sugar *zap.SugaredLogger
}

func Init(level, env string) (*Log, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var cfg zap.Config
	if strings.ToLower(env) == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Log{Base: base, Sugar: base.Sugar()}, nil
}

// Close flushes buffered entries. Safe to defer from main.
func (l *Log) Close() {
	_ = l.Base.Sync()
}
