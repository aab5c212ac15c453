package depot

import "github.com/rs/zerolog"

// Option augments how a World is built.
type Option func(*World)

// WithConfig replaces the world's configuration wholesale.
func WithConfig(cfg Config) Option {
	return func(w *World) {
		w.config = cfg
	}
}

// WithMaxArchetypes lowers the archetype ceiling. Values above 65535 are rejected
// when the world is built.
func WithMaxArchetypes(n int) Option {
	return func(w *World) {
		w.config.MaxArchetypes = n
	}
}

func WithColumnCapacity(n int) Option {
	return func(w *World) {
		w.config.ColumnCapacity = n
	}
}

// WithLogger sets the logger; the world adds its own context fields.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = &logger
	}
}
