// Package telemetry configures the service's structured logger, mirroring
// the teacher's cmd/factoryinsight/main.go zap + ecszap setup exactly: an
// ECS-shaped JSON encoder, DEBUG under LOG_LEVEL=DEVELOPMENT, INFO otherwise.
package telemetry

import (
	"os"

	"go.elastic.co/ecszap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide zap logger for the given log level
// ("DEVELOPMENT" enables debug verbosity; anything else, including empty,
// is INFO) and installs it as the global logger so internal packages can
// reach it via zap.S()/zap.L() without threading it through every call.
func NewLogger(logLevel string) *zap.Logger {
	encoderConfig := ecszap.NewDefaultEncoderConfig()

	var core zapcore.Core
	switch logLevel {
	case "DEVELOPMENT":
		core = ecszap.NewCore(encoderConfig, os.Stdout, zap.DebugLevel)
	default:
		core = ecszap.NewCore(encoderConfig, os.Stdout, zap.InfoLevel)
	}

	logger := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(logger)
	return logger
}
