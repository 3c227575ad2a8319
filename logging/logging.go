// Copyright 2026 Converter Systems LLC. All rights reserved.

// Package logging builds the diagnostic logger of the tools. Diagnostics go to stderr so that stdout carries
// only the tool's report.
package logging

import (
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing entries at or above level ("debug", "info", "warn" or "error") to w.
// Production mode writes json, development mode writes human readable entries with caller information.
// logr's V(1) corresponds to level debug.
func New(w io.Writer, level string, development bool) (logr.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return logr.Discard(), errors.Wrapf(err, "log level %q", level)
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	opts := []zap.Option{zap.ErrorOutput(zapcore.AddSync(w))}
	if development {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		opts = append(opts, zap.Development(), zap.AddCaller())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zapr.NewLogger(zap.New(core, opts...)), nil
}
