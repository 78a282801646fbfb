package zarrgo

import (
	"log/slog"
	"runtime"
)

type options struct {
	sparseWrites bool
	concurrency  int
	logger       *Logger
}

func defaultOptions() options {
	return options{
		concurrency: runtime.GOMAXPROCS(0),
		logger:      NoopLogger(),
	}
}

// Option configures Array and Group open/create behavior.
type Option func(*options)

// WithSparseWrites enables the sparse representation: writing a chunk that
// holds only the fill value deletes its key instead of storing bytes.
// Reads are unaffected either way; the difference is observable in the
// store's key listing, which is why this is opt-in.
func WithSparseWrites(sparse bool) Option {
	return func(o *options) {
		o.sparseWrites = sparse
	}
}

// WithConcurrency bounds the number of chunks processed in parallel by
// region reads and writes. Values below 1 mean sequential.
// The default is GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.concurrency = n
	}
}

// WithLogger configures structured logging for chunk IO.
// The default discards all output; the engine never logs as recovery.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}
