// Package logger provides the structured logger the rest of txorm writes
// through: a package-level sugared logger built from config.Logger,
// console-encoded or JSON depending on configuration, with optional file
// rotation via lumberjack.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Darisishe/txorm/config"
)

// L is the package-level sugared logger every txorm component logs
// through. It defaults to a no-op logger so callers that never call Init
// still get a safe, usable zero value.
var L = zap.NewNop().Sugar()

// Init builds L from cfg. Call it once at startup; it is safe to call
// again to reconfigure (e.g. in tests that want debug-level output).
func Init(cfg config.Logger) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(levelOrDefault(cfg.Level))); err != nil {
		return err
	}

	var encoder zapcore.Encoder
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	writer := zapcore.AddSync(os.Stderr)
	if cfg.File != "" {
		writer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
		})
	}

	core := zapcore.NewCore(encoder, writer, level)
	L = zap.New(core, zap.AddCaller()).Sugar()
	return nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
