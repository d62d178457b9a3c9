// Package gutenclean ties the structural normalizer and the boilerplate
// scanner into a single document-cleaning pipeline.
package gutenclean

import (
	"io"

	"github.com/literaryqa/gutenclean/pkg/normalize"
)

// Config holds pipeline configuration.
type Config struct {
	// Normalize controls the structural rewrite passes applied to HTML
	// input before scanning.
	Normalize normalize.Options

	// NormalizePunctuation enables dash and quote normalization on the
	// cleaned text.
	NormalizePunctuation bool

	// Diagnostics receives a TSV record for every line the scanner drops.
	// Nil disables diagnostics.
	Diagnostics io.Writer
}

// DefaultConfig returns the full cleaning configuration: every structural
// rewrite on, punctuation normalization on, diagnostics off.
func DefaultConfig() Config {
	return Config{
		Normalize:            normalize.DefaultOptions(),
		NormalizePunctuation: true,
	}
}

// Option configures a Pipeline.
type Option func(*Config)

// WithNormalizeOptions replaces the structural rewrite toggles.
func WithNormalizeOptions(opts normalize.Options) Option {
	return func(c *Config) {
		c.Normalize = opts
	}
}

// WithPunctuationNormalization toggles dash and quote normalization.
func WithPunctuationNormalization(enabled bool) Option {
	return func(c *Config) {
		c.NormalizePunctuation = enabled
	}
}

// WithDiagnostics sends a record for every dropped line to w.
func WithDiagnostics(w io.Writer) Option {
	return func(c *Config) {
		c.Diagnostics = w
	}
}
