package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/schemaref/internal/config"
	"github.com/mcncl/schemaref/internal/errors"
	"github.com/mcncl/schemaref/internal/formatter"
	"github.com/mcncl/schemaref/internal/models"
	"github.com/mcncl/schemaref/internal/parser"
)

// Globals are the flags shared by every command
type Globals struct {
	Input      string   `help:"Path to input schema (JSON, or YAML by extension). If not specified, reads from stdin." short:"i" type:"path"`
	YAML       bool     `help:"Treat stdin as YAML instead of JSON." name:"yaml"`
	Config     string   `help:"Path to config file. Defaults to .schemaref.yml in the current or a parent directory." short:"c" type:"path"`
	Format     string   `help:"Output format: json or text." short:"f"`
	RefKeyword []string `help:"Reference keyword to collect (repeatable)." name:"ref-keyword"`
	IDKeyword  []string `help:"Identifier keyword that opens a resolution scope (repeatable)." name:"id-keyword"`
	BaseScope  string   `help:"Resolution scope of the document root." name:"base-scope"`
	MaxDepth   int      `help:"Maximum nesting depth of the schema." name:"max-depth"`
	TextLength string   `help:"String length strategy: graphemes, runes or bytes." name:"text-length"`
	Debug      bool     `help:"Enable debug logging." short:"d"`
}

// CLI defines the command-line interface
var CLI struct {
	Globals `embed:""`

	Extract  ExtractCmd  `cmd:"" help:"Collect keyword values keyed by the pointer of the object holding them."`
	Refs     RefsCmd     `cmd:"" help:"List every reference with its resolved URI."`
	IDs      IDsCmd      `cmd:"" name:"ids" help:"Map resolved identifiers to the pointers declaring them."`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve a URI reference against a scope."`
	Classify ClassifyCmd `cmd:"" help:"Classify a reference as internal, relative or external."`
	Compare  CompareCmd  `cmd:"" help:"Compare two JSON numbers without losing precision."`
	Lookup   LookupCmd   `cmd:"" help:"Print the value an internal reference points at."`
	Props    PropsCmd    `cmd:"" help:"List property names matching an ECMA-262 pattern."`
	Strlen   StrlenCmd   `cmd:"" help:"Measure the length of a string."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Context holds the runtime context
type Context struct {
	Input  string
	YAML   bool
	Config *config.Config
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("schemaref"),
		kong.Description("Traverse JSON Schemas: extract keywords, resolve references and compare numbers"),
		kong.UsageOnError(),
	)

	ctx, err := newContext(&CLI.Globals, os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		err = kctx.Run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: schemaref --help\n")
		os.Exit(1)
	}
}

// newContext loads the configuration and applies flag overrides
func newContext(g *Globals, in io.Reader, out, logOut io.Writer) (*Context, error) {
	configPath := g.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, &config.Config{
		RefKeywords: g.RefKeyword,
		IDKeywords:  g.IDKeyword,
		BaseScope:   g.BaseScope,
		MaxDepth:    g.MaxDepth,
		TextLength:  g.TextLength,
		Output:      config.OutputConfig{Format: g.Format},
		Dev:         config.DevConfig{Debug: g.Debug},
	})
	if err != nil {
		return nil, errors.NewInputError("failed to load configuration", err)
	}

	level := slog.LevelWarn
	if cfg.Dev.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	return &Context{
		Input:  g.Input,
		YAML:   g.YAML,
		Config: cfg,
		Logger: logger,
		In:     in,
		Out:    out,
	}, nil
}

// output returns a formatter for the configured format
func (c *Context) output() *formatter.Formatter {
	return formatter.NewFormatter(c.Config.OutputFormat())
}

// loadSchema reads the schema from the input file or stdin
func (c *Context) loadSchema() (models.Value, error) {
	depth := parser.WithMaxDepth(c.Config.MaxDepth)

	if c.Input != "" {
		c.Logger.Debug("reading schema", "file", c.Input)
		return parser.ParseFile(c.Input, depth)
	}

	if f, ok := c.In.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}
		if (info.Mode() & os.ModeCharDevice) != 0 {
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(c.In)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	c.Logger.Debug("reading schema", "source", "stdin", "bytes", len(data), "yaml", c.YAML)
	if c.YAML {
		return parser.ParseYAML(data, depth)
	}
	return parser.ParseBytes(data, depth)
}

// writeOutput writes a rendered result followed by a newline
func (c *Context) writeOutput(text string) error {
	if _, err := fmt.Fprintln(c.Out, strings.TrimRight(text, "\n")); err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}
