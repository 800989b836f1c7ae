package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Init replaces the global zap logger. Development and local environments get
// the human-readable console encoder, everything else JSON.
func Init(environment string) error {
	var conf zap.Config
	switch environment {
	case "development", "local", "test":
		conf = zap.NewDevelopmentConfig()
		level.SetLevel(zap.DebugLevel)
	default:
		conf = zap.NewProductionConfig()
		level.SetLevel(zap.InfoLevel)
	}
	conf.Level = level

	l, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}
	zap.ReplaceGlobals(l)

	return nil
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(text string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(text)); err != nil {
		return fmt.Errorf("invalid log level %q -> %w", text, err)
	}
	level.SetLevel(lvl)
	zap.L().Info("log level changed", zap.String("level", lvl.String()))

	return nil
}
