package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It defaults to a no-op logger so
// packages can log before Initialize runs (and in tests).
var Log = zap.NewNop()

// SugaredLog is a sugared logger for printf-style logging
var SugaredLog = Log.Sugar()

// Initialize sets up the structured logger with file rotation.
// logLevel: "debug", "info", "warn", "error" (default: "info")
// logFile: path to log file (default: "server.log")
func Initialize(logLevel string, logFile string) error {
	if logFile == "" {
		logFile = "server.log"
	}

	if logLevel == "" {
		logLevel = "info"
	}

	level := parseLogLevel(logLevel)

	// File output rotates via lumberjack
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     7, // days
		Compress:   true,
	})

	// Human-readable console output, JSON to the log file
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	jsonEncoderConfig := zap.NewProductionEncoderConfig()
	jsonEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEncoder := zapcore.NewJSONEncoder(jsonEncoderConfig)

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
		zapcore.NewCore(jsonEncoder, fileWriter, level),
	)

	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SugaredLog = Log.Sugar()

	Log.Info("Logger initialized",
		zap.String("level", logLevel),
		zap.String("file", logFile),
	)

	return nil
}

// Close flushes the logger before shutdown
func Close() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}

func parseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Helper functions for common logging patterns

// InfoWithFields logs an info message with structured fields
func InfoWithFields(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// WarnWithFields logs a warning message, optionally with an error
func WarnWithFields(msg string, err error) {
	if err != nil {
		Log.Warn(msg, zap.Error(err))
	} else {
		Log.Warn(msg)
	}
}

// ErrorWithFields logs an error message with an error
func ErrorWithFields(msg string, err error) {
	if err != nil {
		Log.Error(msg, zap.Error(err))
	} else {
		Log.Error(msg)
	}
}

// Error logs an error with structured fields
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// DebugWithFields logs a debug message with structured fields
func DebugWithFields(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// FatalWithFields logs a fatal error and exits
func FatalWithFields(msg string, err error) {
	if err != nil {
		Log.Fatal(msg, zap.Error(err))
	} else {
		Log.Fatal(msg)
	}
}

// Printf-style logging for compatibility with older call sites
func Infof(format string, args ...interface{}) {
	SugaredLog.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	SugaredLog.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	SugaredLog.Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	SugaredLog.Fatalf(format, args...)
}

// Field constructors commonly needed in handlers

func WithRequestID(requestID string) zap.Field {
	return zap.String("request_id", requestID)
}

func WithUserID(userID string) zap.Field {
	return zap.String("user_id", userID)
}

func WithAnnoyanceID(annoyanceID uint) zap.Field {
	return zap.Uint("annoyance_id", annoyanceID)
}

func WithIP(ip string) zap.Field {
	return zap.String("ip", ip)
}

func WithStatus(status int) zap.Field {
	return zap.Int("status", status)
}
