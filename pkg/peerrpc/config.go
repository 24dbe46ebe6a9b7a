package peerrpc

import (
	"time"

	"github.com/jabolina/peerrpc/pkg/peerrpc/definition"
)

// Config holds the multiplexer's tunable behavior. Every field has a
// default; no field is required for correctness.
type Config struct {
	// Logger receives every diagnostic emitted by the dispatcher, its
	// endpoints and its client scopes. Defaults to a DefaultLogger writing
	// to stderr.
	Logger definition.Logger

	// RecvRetryBackoff is how long the dispatcher waits before retrying
	// transport.Recv after a non-cancellation error.
	RecvRetryBackoff time.Duration
}

// DefaultConfig returns a Config with the package's default logger and
// backoff, ready to use as-is or as a base for Option overrides.
func DefaultConfig() Config {
	return Config{
		Logger:           definition.NewDefaultLogger(),
		RecvRetryBackoff: 50 * time.Millisecond,
	}
}

// Option mutates a Config at construction time.
type Option func(*Config)

// WithLogger overrides the multiplexer's logger.
func WithLogger(logger definition.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithRecvRetryBackoff overrides the delay before retrying a failed
// transport receive.
func WithRecvRetryBackoff(backoff time.Duration) Option {
	return func(c *Config) { c.RecvRetryBackoff = backoff }
}
