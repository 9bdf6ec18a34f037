// Package sysutil contains process-level helpers for the server binary.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
	"panic":   zerolog.PanicLevel,
}

// SetLogLevel sets the global zerolog level from its configured name,
// case-insensitive. Unknown or empty values select info.
func SetLogLevel(lvl string) {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(lvl))]
	if !ok {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// FirstNonEmpty returns the first value that is not blank after trimming,
// or "" when all are. Used to apply defaults to optional identity fields.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
