package application

import (
	"errors"
	"log/slog"
)

// errNoChange tells mutate to skip the save without reporting an error.
var errNoChange = errors.New("no change")

// SplitOptions configures SplitFiles. Zero values fall back to
// DefaultMaxChars and the directory of each input.
type SplitOptions struct {
	MaxChars int
	OutDir   string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
