package streamio

import "github.com/rs/zerolog"

type config struct {
	mode   string
	uri    string
	uriSet bool
	size   int64
	logger *zerolog.Logger
}

// Option configures a Stream at construction time.
type Option func(*config)

// WithMode sets the fopen-style mode the handle was opened in, overriding
// any mode the handle reports itself. Capability flags are derived from it.
func WithMode(mode string) Option {
	return func(cfg *config) {
		cfg.mode = mode
	}
}

// WithURI sets the resource locator, overriding the name the handle
// reports itself. A plain filesystem path makes the stream path-backed,
// so size queries always consult fresh filesystem metadata.
func WithURI(uri string) Option {
	return func(cfg *config) {
		cfg.uri = uri
		cfg.uriSet = true
	}
}

// WithSizeHint seeds the size cache with a known byte length, avoiding the
// first stat for resources whose size the caller already knows.
func WithSizeHint(n int64) Option {
	return func(cfg *config) {
		cfg.size = n
	}
}

// WithLogger sets the logger used for side-channel diagnostics such as
// string-conversion failures. The global zerolog logger is used otherwise.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = &l
	}
}
