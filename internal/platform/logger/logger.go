package logger

import (
	"io"
	"log"
	"os"
)

// New returns the process logger. Pipeline output goes to the event bus; the
// logger is for operational noise only.
func New() *log.Logger {
	return log.New(os.Stderr, "scandoc ", log.LstdFlags)
}

// Discard silences a component, used by tests.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
