package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the whole service. Level is picked once at startup
// from LOG_LEVEL (debug|info|warn|error|fatal) and defaults to info.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var (
	mu    sync.RWMutex
	out   = log.New(os.Stdout, "", 0)
	level = LevelInfo
)

// Init sets the global log level. Unknown or empty input falls back to info.
func Init(name string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	case "fatal":
		level = LevelFatal
	default:
		level = LevelInfo
	}
}

// SetOutput redirects log output; used by tests to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = log.New(w, "", 0)
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return levelNames[level]
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func emit(l Level, format string, v ...interface{}) {
	if !enabled(l) {
		return
	}
	mu.RLock()
	w := out
	mu.RUnlock()
	prefix := fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(levelNames[l]))
	w.Printf(prefix+format, v...)
}

func Debugf(format string, v ...interface{}) { emit(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { emit(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { emit(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { emit(LevelError, format, v...) }

func Fatalf(format string, v ...interface{}) {
	emit(LevelFatal, format, v...)
	os.Exit(1)
}
