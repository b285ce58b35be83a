package logger

// Package logger writes leveled messages to stderr.
//
// elev runs setuid root, so it never creates log files of its own:
// a file it opened would carry root ownership in whatever directory
// the invoker pointed it at. Debug messages appear only when verbose
// mode is on. Secrets must never reach any level.

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu      sync.Mutex
	verbose bool
	isTTY   = term.IsTerminal(int(os.Stderr.Fd()))
)

// SetVerbose enables debug output (-v).
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

func Debug(format string, args ...interface{}) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	log(LevelDebug, format, args...)
}

func Info(format string, args ...interface{}) {
	log(LevelInfo, format, args...)
}

func Warn(format string, args ...interface{}) {
	log(LevelWarn, format, args...)
}

func Error(format string, args ...interface{}) {
	log(LevelError, format, args...)
}

func log(lvl Level, format string, args ...interface{}) {
	now := time.Now().Format("2006/01/02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	var label, colorStart, colorEnd string
	switch lvl {
	case LevelDebug:
		colorStart = "\033[36m" // Cyan
		label = "[DEBG] "
	case LevelInfo:
		colorStart = "\033[32m" // Green
		label = "[INFO] "
	case LevelWarn:
		colorStart = "\033[33m" // Yellow
		label = "[WARN] "
	case LevelError:
		colorStart = "\033[31m" // Red
		label = "[EROR] "       // 4 chars align
	}
	if isTTY {
		colorEnd = "\033[0m"
	} else {
		colorStart = ""
	}
	fmt.Fprintf(os.Stderr, "%s %s%s%s%s\n", now, colorStart, label, colorEnd, msg)
}
