// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

// base is the zap logger every level writes through.
var base *zap.Logger

// ------------------- logger initialization -------------------

// InitLogger creates or reinitializes the logging system. Console output
// always goes to stdout; when logFile is set, JSON lines are also appended
// to that file (its directory is created if missing).
func InitLogger(logFile string) error {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), zapcore.DebugLevel),
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
			return err
		}
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zapcore.DebugLevel))
	}

	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	var err error
	if Info, err = zap.NewStdLogAt(base, zapcore.InfoLevel); err != nil {
		return err
	}
	if Warn, err = zap.NewStdLogAt(base, zapcore.WarnLevel); err != nil {
		return err
	}
	if Error, err = zap.NewStdLogAt(base, zapcore.ErrorLevel); err != nil {
		return err
	}
	if Debug, err = zap.NewStdLogAt(base, zapcore.DebugLevel); err != nil {
		return err
	}
	return nil
}

// SetLogLevel discards debug output in production.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

// Zap exposes the underlying structured logger for callers that want fields.
func Zap() *zap.Logger {
	return base
}

// Sync flushes any buffered log entries.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

// init makes the loggers usable before main configures them (tests rely on this).
func init() {
	if err := InitLogger(""); err != nil {
		log.Fatalf("Failed to initialise custom logger: %v", err)
	}
}
