package main

import (
	"fmt"
	"log"
	"strings"

	"ktm-can-service/ktm"
)

var levelTags = map[LogLevel]string{
	LogLevelError: "[ERROR] ",
	LogLevelWarn:  "[WARN] ",
	LogLevelInfo:  "[INFO] ",
	LogLevelDebug: "[DEBUG] ",
}

// LeveledLogger filters messages below its level before handing them to a
// standard logger.
type LeveledLogger struct {
	logger   *log.Logger
	logLevel LogLevel
}

func NewLeveledLogger(logger *log.Logger, level LogLevel) *LeveledLogger {
	return &LeveledLogger{
		logger:   logger,
		logLevel: level,
	}
}

// Enabled reports whether messages at level are written.
func (l *LeveledLogger) Enabled(level LogLevel) bool {
	return level != LogLevelNone && l.logLevel >= level
}

func (l *LeveledLogger) logf(level LogLevel, format string, v ...interface{}) {
	if l.Enabled(level) {
		l.logger.Printf(levelTags[level]+format, v...)
	}
}

func (l *LeveledLogger) Debug(format string, v ...interface{}) { l.logf(LogLevelDebug, format, v...) }
func (l *LeveledLogger) Info(format string, v ...interface{})  { l.logf(LogLevelInfo, format, v...) }
func (l *LeveledLogger) Warn(format string, v ...interface{})  { l.logf(LogLevelWarn, format, v...) }
func (l *LeveledLogger) Error(format string, v ...interface{}) { l.logf(LogLevelError, format, v...) }

// DebugCAN logs a raw frame. Length is clamped to the payload actually present.
func (l *LeveledLogger) DebugCAN(direction string, id uint32, data []byte, length uint8) {
	if !l.Enabled(LogLevelDebug) {
		return
	}

	n := int(length)
	if n > len(data) {
		n = len(data)
	}

	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%02X", data[i])
	}
	l.logf(LogLevelDebug, "CAN %s: ID=0x%03X Len=%d Data=[%s]", direction, id, length, strings.Join(parts, " "))
}

// DebugRecord logs a decoded record with its rendered summary.
func (l *LeveledLogger) DebugRecord(r ktm.Record) {
	if !l.Enabled(LogLevelDebug) {
		return
	}
	l.logf(LogLevelDebug, "%s: %s", ktm.NameOf(r.CANID()), ktm.Render(r))
}
