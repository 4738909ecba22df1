package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the service logger. Production emits JSON at info level;
// every other environment gets a colored console encoder at debug level.
func New(env string) (*zap.Logger, error) {
	core := newCore(env, zapcore.Lock(os.Stdout))

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	), nil
}

func newCore(env string, out zapcore.WriteSyncer) zapcore.Core {
	if env == "production" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.MessageKey = "message"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), out, zapcore.InfoLevel)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), out, zapcore.DebugLevel)
}
