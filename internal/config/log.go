package config

import (
	"io"
	"log/slog"
	"strings"
)

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level)))
	return lvl, err
}

// NewLogger builds a text or JSON logger writing to w at the configured
// level. An unknown level falls back to info.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
