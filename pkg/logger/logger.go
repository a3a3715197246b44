package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Стандартные имена полей для структурированных логов
const (
	FieldRunID     = "run_id"
	FieldComponent = "component"
	FieldSource    = "source"
	FieldPath      = "path"
	FieldURL       = "url"
	FieldKey       = "key"
	FieldCount     = "count"
	FieldFormat    = "format"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Logger is the process-wide logger. It is a no-op until Initialize is called.
var Logger *zap.SugaredLogger

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. JSON output is for machines,
// console output for people.
func Initialize(jsonOutput, debug bool) error {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	var config zap.Config
	if jsonOutput {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	}
	config.Level = zap.NewAtomicLevelAt(level)
	// stdout занят результатами запросов
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := config.Build()
	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Named returns a child of the global logger tagged with a component name
func Named(component string) *zap.SugaredLogger {
	return Logger.With(FieldComponent, component)
}

func Sync() {
	_ = Logger.Sync()
}
