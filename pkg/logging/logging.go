// Package logging builds the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance, set by Setup.
var Logger *zap.Logger = zap.NewNop()

// Config returns the zap configuration for the given mode: JSON production
// output by default, console development output when debug is set.
func Config(debug bool, appName, appVersion string) zap.Config {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		// Quiet unless --debug.
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}
	return cfg
}

// Setup builds Logger from Config and installs it as the zap global.
// On failure Logger falls back to an example logger and the error is returned.
func Setup(debug bool, appName, appVersion string) error {
	logger, err := Config(debug, appName, appVersion).Build()
	if err != nil {
		Logger = zap.NewExample()
		return err
	}

	Logger = logger
	zap.ReplaceGlobals(Logger)
	return nil
}
