package orchid

import (
	"github.com/rs/zerolog"

	"github.com/orchidlang/orchid/parser"
	"github.com/orchidlang/orchid/validate"
)

// Option is a configuration function for Parse and Check.
type Option func(*config)

type config struct {
	filename string
	maxDepth int
	failFast bool
	strict   bool
	debug    bool
	builtins []string
	logger   zerolog.Logger
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		maxDepth: parser.DefaultMaxDepth,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithFilename sets the file name attached to diagnostics.
func WithFilename(filename string) Option {
	return func(c *config) {
		c.filename = filename
	}
}

// WithMaxDepth sets the maximum value nesting depth. Input nested deeper
// is reported as an error rather than risking stack exhaustion. The
// default is parser.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithFailFast stops at the first error found in any pass, instead of the
// default collect-all behavior.
func WithFailFast() Option {
	return func(c *config) {
		c.failFast = true
	}
}

// WithStrictDeprecated treats deprecated constructs as hard errors
// instead of warnings.
func WithStrictDeprecated() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithDebug retains the parser's token and rule trace on the Result and
// enables rule-level trace logging.
func WithDebug() Option {
	return func(c *config) {
		c.debug = true
	}
}

// WithBuiltins declares names that references may always resolve to.
func WithBuiltins(names ...string) Option {
	return func(c *config) {
		c.builtins = append(c.builtins, names...)
	}
}

// WithLogger sets the logger used for debug tracing. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func (c *config) parserOptions() []parser.Option {
	opts := []parser.Option{
		parser.WithMaxDepth(c.maxDepth),
		parser.WithLogger(c.logger),
	}
	if c.filename != "" {
		opts = append(opts, parser.WithFilename(c.filename))
	}
	if c.failFast {
		opts = append(opts, parser.WithFailFast())
	}
	if c.debug {
		opts = append(opts, parser.WithDebug())
	}
	return opts
}

func (c *config) validatorOptions() []validate.Option {
	opts := []validate.Option{validate.WithBuiltins(c.builtins...)}
	if c.strict {
		opts = append(opts, validate.WithStrictDeprecated())
	}
	if c.failFast {
		opts = append(opts, validate.WithFailFast())
	}
	return opts
}
