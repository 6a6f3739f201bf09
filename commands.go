package main

import (
	stderrors "errors"
	"fmt"

	"github.com/mcncl/schemaref/internal/errors"
	"github.com/mcncl/schemaref/internal/extract"
	"github.com/mcncl/schemaref/internal/formatter"
	"github.com/mcncl/schemaref/internal/models"
	"github.com/mcncl/schemaref/internal/number"
	"github.com/mcncl/schemaref/internal/pattern"
	"github.com/mcncl/schemaref/internal/pointer"
	"github.com/mcncl/schemaref/internal/ref"
	"github.com/mcncl/schemaref/internal/textlen"
)

// ExtractCmd collects the values of the given keywords
type ExtractCmd struct {
	Keywords []string `arg:"" optional:"" help:"Keywords to collect. Defaults to the configured reference keywords."`
	Strings  bool     `help:"Only collect string values."`
}

func (cmd *ExtractCmd) Run(ctx *Context) error {
	doc, err := ctx.loadSchema()
	if err != nil {
		return err
	}

	keywords := cmd.Keywords
	if len(keywords) == 0 {
		keywords = ctx.Config.RefKeywords
	}
	pred := extract.Keyword(keywords...)
	if cmd.Strings {
		pred = extract.StringKeyword(keywords...)
	}

	matches, err := extract.Extract(doc, pred, extract.WithMaxDepth(ctx.Config.MaxDepth))
	if err != nil {
		return errors.NewExtractionError("failed to extract keywords", err)
	}
	ctx.Logger.Debug("extracted keywords", "keywords", keywords, "matches", matches.Len())

	out, err := ctx.output().Matches(matches)
	if err != nil {
		return errors.NewOutputError("failed to render matches", err)
	}
	return ctx.writeOutput(out)
}

// RefsCmd lists every reference in the schema
type RefsCmd struct{}

func (cmd *RefsCmd) Run(ctx *Context) error {
	doc, err := ctx.loadSchema()
	if err != nil {
		return err
	}

	refs, err := ref.Collect(doc, ctx.Config.RefOptions())
	if err != nil {
		return traversalError("failed to collect references", err)
	}
	ctx.Logger.Debug("collected references", "count", len(refs))

	out, err := ctx.output().References(refs)
	if err != nil {
		return errors.NewOutputError("failed to render references", err)
	}
	return ctx.writeOutput(out)
}

// IDsCmd maps resolved identifiers to their pointers
type IDsCmd struct{}

func (cmd *IDsCmd) Run(ctx *Context) error {
	doc, err := ctx.loadSchema()
	if err != nil {
		return err
	}

	ids, err := ref.Identifiers(doc, ctx.Config.RefOptions())
	if err != nil {
		return traversalError("failed to collect identifiers", err)
	}
	ctx.Logger.Debug("collected identifiers", "count", ids.Len())

	out, err := ctx.output().Identifiers(ids)
	if err != nil {
		return errors.NewOutputError("failed to render identifiers", err)
	}
	return ctx.writeOutput(out)
}

// ResolveCmd resolves one URI reference
type ResolveCmd struct {
	ID    string `arg:"" help:"URI reference to resolve."`
	Scope string `help:"Parent resolution scope. Defaults to the configured base scope." short:"s"`
}

func (cmd *ResolveCmd) Run(ctx *Context) error {
	scope := cmd.Scope
	if scope == "" {
		scope = ctx.Config.BaseScope
	}

	resolved, err := ref.Resolve(cmd.ID, scope)
	if err != nil {
		return errors.NewResolutionError(fmt.Sprintf("cannot resolve %q against %q", cmd.ID, scope), err)
	}

	return ctx.writeFields([]formatter.Field{
		{Name: "id", Value: cmd.ID},
		{Name: "scope", Value: scope},
		{Name: "resolved", Value: resolved},
	})
}

// ClassifyCmd reports what kind of reference a string is
type ClassifyCmd struct {
	Ref string `arg:"" help:"Reference to classify."`
}

func (cmd *ClassifyCmd) Run(ctx *Context) error {
	kind := ref.Classify(cmd.Ref)
	fields := []formatter.Field{
		{Name: "ref", Value: cmd.Ref},
		{Name: "kind", Value: kind.String()},
		{Name: "internal", Value: ref.IsInternal(cmd.Ref)},
		{Name: "relative", Value: ref.IsRelative(cmd.Ref)},
		{Name: "stripped", Value: ref.StripFragment(cmd.Ref)},
	}

	if kind == ref.KindExternal {
		prefix, path, err := ref.ParseExternal(cmd.Ref)
		if err != nil {
			return errors.NewReferenceError(fmt.Sprintf("cannot split %q", cmd.Ref), err)
		}
		fields = append(fields,
			formatter.Field{Name: "prefix", Value: prefix},
			formatter.Field{Name: "path", Value: path},
		)
	}

	return ctx.writeFields(fields)
}

// CompareCmd compares two numbers
type CompareCmd struct {
	Left  string `arg:"" help:"Left operand."`
	Right string `arg:"" help:"Right operand."`
}

func (cmd *CompareCmd) Run(ctx *Context) error {
	left, right := numericArg(cmd.Left), numericArg(cmd.Right)

	result, err := number.Compare(left, right)
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("cannot compare %q and %q", cmd.Left, cmd.Right), err)
	}

	return ctx.writeFields([]formatter.Field{
		{Name: "left", Value: cmd.Left},
		{Name: "right", Value: cmd.Right},
		{Name: "result", Value: result},
		{Name: "left_integer", Value: number.IsInteger(left)},
		{Name: "right_integer", Value: number.IsInteger(right)},
	})
}

// numericArg reads a command line operand as a JSON number when it is one
func numericArg(arg string) any {
	n, err := models.ParseNumber(arg)
	if err != nil {
		return arg
	}
	return n
}

// LookupCmd follows an internal reference
type LookupCmd struct {
	Ref string `arg:"" help:"Internal reference such as #/definitions/a."`
}

func (cmd *LookupCmd) Run(ctx *Context) error {
	doc, err := ctx.loadSchema()
	if err != nil {
		return err
	}

	v, err := ref.Lookup(doc, cmd.Ref)
	if err != nil {
		return errors.NewReferenceError(fmt.Sprintf("cannot follow %q", cmd.Ref), err)
	}

	out, err := ctx.output().Value(v)
	if err != nil {
		return errors.NewOutputError("failed to render value", err)
	}
	return ctx.writeOutput(out)
}

// PropsCmd lists property names matching a pattern
type PropsCmd struct {
	Pattern string `arg:"" help:"ECMA-262 regular expression."`
	Pointer string `help:"Pointer to the object whose member names are matched." default:"/properties"`
}

func (cmd *PropsCmd) Run(ctx *Context) error {
	doc, err := ctx.loadSchema()
	if err != nil {
		return err
	}

	v, err := pointer.Get(doc, cmd.Pointer)
	if err != nil {
		return errors.NewReferenceError(fmt.Sprintf("cannot find %q", cmd.Pointer), err)
	}
	obj, ok := v.(*models.Object)
	if !ok {
		return errors.NewReferenceError(fmt.Sprintf("%q is a %s, not an object", cmd.Pointer, v.Kind()), nil)
	}

	names, err := pattern.PropertiesMatching(cmd.Pattern, obj)
	if err != nil {
		return errors.NewInputError("invalid pattern", err)
	}

	arr := make(models.Array, 0, len(names))
	for _, name := range names {
		arr = append(arr, models.String(name))
	}
	out, err := ctx.output().Value(arr)
	if err != nil {
		return errors.NewOutputError("failed to render names", err)
	}
	return ctx.writeOutput(out)
}

// StrlenCmd measures a string
type StrlenCmd struct {
	Text     string `arg:"" help:"Text to measure."`
	Strategy string `help:"Override the configured strategy: graphemes, runes or bytes."`
}

func (cmd *StrlenCmd) Run(ctx *Context) error {
	strategy := ctx.Config.TextStrategy()
	if cmd.Strategy != "" {
		s, err := textlen.Parse(cmd.Strategy)
		if err != nil {
			return errors.NewInputError("invalid strategy", err)
		}
		strategy = s
	}

	return ctx.writeFields([]formatter.Field{
		{Name: "text", Value: cmd.Text},
		{Name: "strategy", Value: strategy.String()},
		{Name: "length", Value: strategy.Measure(cmd.Text)},
	})
}

// VersionCmd prints the version
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	return ctx.writeOutput(fmt.Sprintf("schemaref version %s", Version))
}

func (c *Context) writeFields(fields []formatter.Field) error {
	out, err := c.output().Fields(fields)
	if err != nil {
		return errors.NewOutputError("failed to render result", err)
	}
	return c.writeOutput(out)
}

// traversalError separates scope resolution failures from walk failures
func traversalError(message string, err error) error {
	if stderrors.Is(err, ref.ErrInvalidURI) {
		return errors.NewResolutionError(message, err)
	}
	return errors.NewExtractionError(message, err)
}
