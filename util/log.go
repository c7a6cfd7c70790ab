package util

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"

	jww "github.com/spf13/jwalterweatherman"
)

var (
	loggers = map[string]*Logger{}
	levels  = map[string]jww.Threshold{}

	loggersMux sync.Mutex

	// OutThreshold is the default console log level
	OutThreshold = jww.LevelError
)

// Logger wraps a jww notepad to avoid leaking implementation detail
type Logger struct {
	*jww.Notepad
	name string
}

// NewLogger creates a logger with the given log area and adds it to the registry
func NewLogger(area string) *Logger {
	loggersMux.Lock()
	defer loggersMux.Unlock()

	if logger, ok := loggers[area]; ok {
		return logger
	}

	padded := area
	for len(padded) < 6 {
		padded += " "
	}

	level := logLevelForArea(area)
	notepad := jww.NewNotepad(level, jww.LevelTrace, os.Stdout, io.Discard, padded, log.Ldate|log.Ltime)

	logger := &Logger{
		Notepad: notepad,
		name:    area,
	}

	loggers[area] = logger
	return logger
}

// Name returns the loggers name
func (l *Logger) Name() string {
	return l.name
}

// Redact redacts a string with password-like content
func (l *Logger) Redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// Loggers invokes callback for each configured logger
func Loggers(cb func(string, *Logger)) {
	loggersMux.Lock()
	defer loggersMux.Unlock()

	for name, logger := range loggers {
		cb(name, logger)
	}
}

func logLevelToThreshold(level string) jww.Threshold {
	switch strings.ToUpper(level) {
	case "FATAL":
		return jww.LevelFatal
	case "ERROR":
		return jww.LevelError
	case "WARN":
		return jww.LevelWarn
	case "INFO":
		return jww.LevelInfo
	case "DEBUG":
		return jww.LevelDebug
	case "TRACE":
		return jww.LevelTrace
	default:
		panic("invalid log level " + level)
	}
}

// LogLevel sets log level for all loggers
func LogLevel(defItem string, levelMap map[string]string) {
	// default level
	OutThreshold = logLevelToThreshold(defItem)

	// area levels
	loggersMux.Lock()
	for area, level := range levelMap {
		area = strings.ToLower(area)
		levels[area] = logLevelToThreshold(level)
	}
	loggersMux.Unlock()

	Loggers(func(name string, logger *Logger) {
		logger.SetStdoutThreshold(logLevelForArea(name))
	})
}

// LogLevelForArea gets the log level for given log area
func LogLevelForArea(area string) jww.Threshold {
	loggersMux.Lock()
	defer loggersMux.Unlock()

	return logLevelForArea(area)
}

func logLevelForArea(area string) jww.Threshold {
	level, ok := levels[strings.ToLower(area)]
	if !ok {
		level = OutThreshold
	}
	return level
}
