// Package enginelog provides the race engine's narrative logger, mirroring
// the teacher's redirectable package-level Logf. Frequent/narrative lines
// (lifecycle, per-race summaries) go through Logf; structural one-off
// events use log/slog directly, the same split the teacher draws between
// game/logging.go's Logf and game/lifecycle.go's slog.Info/Warn calls.
package enginelog

import (
	"fmt"
	"io"
)

var writer io.Writer

// SetWriter sets the log output destination. A nil writer (the default)
// logs to stdout.
func SetWriter(w io.Writer) {
	writer = w
}

// Logf writes a formatted log line.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if writer != nil {
		fmt.Fprintln(writer, msg)
	} else {
		fmt.Println(msg)
	}
}
