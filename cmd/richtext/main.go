// Command richtext scans post text and prints its segments or the finalized
// text and facets as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	richtext "github.com/riverfjs/richtext-go"
)

// CLI defines the command-line interface.
var CLI struct {
	Config   string `name:"config" short:"c" help:"YAML config file" type:"existingfile"`
	LogLevel string `name:"log-level" help:"Override the configured log level"`

	Parse         ParseCmd         `cmd:"" help:"Scan text and print its segments and links"`
	Finalize      FinalizeCmd      `cmd:"" help:"Scan text, resolve mentions and print text with facets"`
	Length        LengthCmd        `cmd:"" help:"Print the grapheme and UTF-8 byte length of the rendered text"`
	ExampleConfig ExampleConfigCmd `cmd:"" name:"example-config" help:"Print the default configuration"`
}

// App carries what every command needs once flags are parsed.
type App struct {
	Config *richtext.Config
	Log    zerolog.Logger
	Stdin  io.Reader
	Stdout io.Writer
}

func newApp(configPath, logLevel string) (*App, error) {
	cfg := richtext.DefaultConfig()
	if configPath != "" {
		loaded, err := richtext.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	level := cfg.Level()
	if logLevel != "" {
		l, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Str("module", "richtext").
		Logger()
	richtext.SetLogger(log)

	return &App{
		Config: cfg,
		Log:    log,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}, nil
}

// input joins positional words, or reads all of stdin when there are none.
func (a *App) input(words []string) (string, error) {
	if len(words) > 0 {
		return strings.Join(words, " "), nil
	}
	data, err := io.ReadAll(a.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func (a *App) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ParseCmd prints the scanner output.
type ParseCmd struct {
	Text []string `arg:"" optional:"" help:"Text to scan; stdin when omitted"`
}

type parseOutput struct {
	Segments []richtext.Segment `json:"segments"`
	Links    []string           `json:"links"`
	Text     string             `json:"text"`
	Length   int                `json:"length"`
}

// Run executes the parse command.
func (c *ParseCmd) Run(app *App) error {
	source, err := app.input(c.Text)
	if err != nil {
		return err
	}
	p := richtext.Parse(source, app.Config.Options()...)
	return app.writeJSON(parseOutput{
		Segments: p.Segments,
		Links:    p.Links,
		Text:     richtext.RenderedText(p),
		Length:   richtext.DisplayLength(p),
	})
}

// FinalizeCmd prints the finalized text and facets.
type FinalizeCmd struct {
	Text           []string `arg:"" optional:"" help:"Text to finalize; stdin when omitted"`
	Offline        bool     `help:"Do not resolve mentions; every mention is dropped"`
	ValidLinksOnly bool     `name:"valid-links-only" help:"Skip link facets for markdown links with invalid targets"`
	NoLimit        bool     `name:"no-limit" help:"Do not enforce the grapheme limit"`
	Record         bool     `help:"Print an app.bsky.feed.post record instead of text and facets"`
}

// Run executes the finalize command.
func (c *FinalizeCmd) Run(app *App) error {
	source, err := app.input(c.Text)
	if err != nil {
		return err
	}

	opts := append(app.Config.Options(), richtext.WithValidLinksOnly(c.ValidLinksOnly))
	p := richtext.Parse(source, opts...)
	if !c.NoLimit {
		if err := richtext.Validate(p, app.Config.MaxGraphemes); err != nil {
			return err
		}
	}

	var resolver richtext.Resolver
	if c.Offline {
		resolver = richtext.ResolverFunc(func(_ context.Context, handle string) (string, error) {
			return "", fmt.Errorf("%w: %s (offline)", richtext.ErrHandleNotFound, handle)
		})
	} else {
		resolver = richtext.NewResolverFromConfig(app.Config)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	out, err := richtext.Finalize(ctx, resolver, p, opts...)
	if err != nil {
		return err
	}
	app.Log.Debug().
		Int("facets", len(out.Facets)).
		Dur("took", time.Since(start)).
		Msg("Finalized text")
	if c.Record {
		return app.writeJSON(richtext.PostRecord(out, time.Now()))
	}
	return app.writeJSON(out)
}

// LengthCmd prints length information.
type LengthCmd struct {
	Text []string `arg:"" optional:"" help:"Text to measure; stdin when omitted"`
}

// Run executes the length command.
func (c *LengthCmd) Run(app *App) error {
	source, err := app.input(c.Text)
	if err != nil {
		return err
	}
	p := richtext.Parse(source, app.Config.Options()...)
	text := richtext.RenderedText(p)
	fmt.Fprintf(app.Stdout, "graphemes: %d/%d\n", richtext.DisplayLength(p), app.Config.MaxGraphemes)
	fmt.Fprintf(app.Stdout, "bytes:     %d\n", richtext.UTF8Len(text))
	return nil
}

// ExampleConfigCmd prints the embedded default configuration.
type ExampleConfigCmd struct{}

// Run executes the example-config command.
func (c *ExampleConfigCmd) Run(app *App) error {
	_, err := io.WriteString(app.Stdout, richtext.ExampleConfig)
	return err
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("richtext"),
		kong.Description("Turn post text into plain text and richtext facets"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	app, err := newApp(CLI.Config, CLI.LogLevel)
	ctx.FatalIfErrorf(err)
	err = ctx.Run(app)
	ctx.FatalIfErrorf(err)
}
