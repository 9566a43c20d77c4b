package gen

import (
	"errors"
	"log/slog"
	"runtime"
	"strings"
)

// DefaultHeader is the first line of every generated file.
const DefaultHeader = "Code generated by sqlbgen, DO NOT EDIT."

// DefaultSuffix is appended to the package name to form the file name.
const DefaultSuffix = "_fields.go"

// Config holds the code generation settings.
type Config struct {
	// Header is the comment at the top of each file.
	Header string
	// Suffix names the generated file: <package><suffix>.
	Suffix string
	// Workers bounds the number of files rendered in parallel.
	Workers int
	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		if strings.TrimSpace(header) == "" {
			return NewConfigError("Header", nil, "header cannot be empty")
		}
		c.Header = header
		return nil
	}
}

// WithSuffix sets the generated file name suffix. It must end in ".go"
// and must not name a test file.
func WithSuffix(suffix string) Option {
	return func(c *Config) error {
		switch {
		case !strings.HasSuffix(suffix, ".go") || suffix == ".go":
			return NewConfigError("Suffix", suffix, `suffix must end in ".go"`)
		case strings.HasSuffix(suffix, "_test.go"):
			return NewConfigError("Suffix", suffix, "suffix cannot name a test file")
		case strings.ContainsAny(suffix, `/\`):
			return NewConfigError("Suffix", suffix, "suffix cannot contain a path separator")
		}
		c.Suffix = suffix
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the progress logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Suffix:  DefaultSuffix,
		Workers: runtime.GOMAXPROCS(0),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
