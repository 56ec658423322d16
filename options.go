package richtext

import (
	"github.com/rs/zerolog"

	"github.com/riverfjs/richtext-go/internal/util"
)

// Options holds options for parsing and finalizing.
type Options struct {
	// URLParser validates markdown link targets and returns the normalized href.
	URLParser func(raw string) (string, bool)
	// Shortener builds the display label of autolinked URLs.
	Shortener func(raw string) string
	// ValidLinksOnly suppresses link facets for markdown links whose target
	// failed validation.
	ValidLinksOnly bool
	// Logger overrides the package Logger during Finalize.
	Logger *zerolog.Logger
}

// Option is a function that configures Options.
type Option func(*Options)

// WithURLParser sets the markdown link target validator.
func WithURLParser(parse func(raw string) (string, bool)) Option {
	return func(opts *Options) {
		opts.URLParser = parse
	}
}

// WithShortener sets the autolink label formatter.
func WithShortener(shorten func(raw string) string) Option {
	return func(opts *Options) {
		opts.Shortener = shorten
	}
}

// WithShortURLPathLimit keeps the default formatter but changes how much of
// the path it shows.
func WithShortURLPathLimit(limit int) Option {
	return func(opts *Options) {
		opts.Shortener = shortenerWithLimit(limit)
	}
}

// WithValidLinksOnly sets whether invalid markdown links still get a link facet.
func WithValidLinksOnly(enable bool) Option {
	return func(opts *Options) {
		opts.ValidLinksOnly = enable
	}
}

// WithLogger sets the logger used while finalizing.
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = &logger
	}
}

func shortenerWithLimit(limit int) func(string) string {
	return func(raw string) string {
		return util.ShortenURL(raw, limit)
	}
}

// defaultOptions returns the default options.
func defaultOptions() *Options {
	return &Options{
		URLParser: util.SafeURLParse,
		Shortener: shortenerWithLimit(DefaultConfig().ShortURLPathLimit),
	}
}

// applyOptions applies the given options to the default options.
func applyOptions(opts ...Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// logger returns the logger Finalize should write to.
func (o *Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return Logger
}
