package session

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultAutosaveInterval is the autosave tick used when none is
// configured.
const DefaultAutosaveInterval = 30 * time.Second

// Option configures a Session during creation.
type Option func(*Session)

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(limit int) Option {
	return func(s *Session) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithAutosaveInterval sets the interval between autosave ticks.
func WithAutosaveInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.autosaveInterval = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}
