// Package log configures the application logger.
package log

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
)

// Init directs the default slog logger to a size-rotated log file.
func Init(path string) {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
}
