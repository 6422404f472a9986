package blog

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns a structured logger writing to w. Unknown levels fall
// back to info.
func NewLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "blog",
		ReportTimestamp: true,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
