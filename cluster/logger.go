package main

import "log/slog"

// Logger routes library messages to the two slog handlers: readable text on
// stdout, JSON on stderr for errors.
type Logger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func (l Logger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l Logger) Error(message string) {
	l.ErrorLog.Error(message)
}
