package main

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Field names for structured log records.
const (
	FieldError   = "error"
	FieldConfig  = "config"
	FieldVersion = "version"
	FieldSession = "session"
	FieldPreset  = "preset"
	FieldOp      = "op"
)

// newLogger builds an slog logger backed by charmbracelet/log. Library
// packages pick it up through quill.SetLogger.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "quill-demo",
	})
	handler.SetLevel(log.InfoLevel)
	if debug {
		handler.SetLevel(log.DebugLevel)
	}
	return slog.New(handler)
}
