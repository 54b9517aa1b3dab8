package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init builds the process logger for env and installs it as zap's global.
// The returned func flushes buffered entries and should be deferred by main.
func Init(env string) (func(), error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return func() {}, err
	}
	undo := zap.ReplaceGlobals(l)
	return func() {
		_ = l.Sync()
		undo()
	}, nil
}
