package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	stderrors "errors" // Standard errors package

	json "github.com/goccy/go-json"

	"github.com/mcncl/schemaref/internal/errors" // Custom errors package
	"github.com/mcncl/schemaref/internal/models"
)

// DefaultMaxDepth is the deepest nesting accepted by the decoder.
const DefaultMaxDepth = 512

// Option configures a parse call.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth limits how deeply objects and arrays may nest.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

func newOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse decodes a single JSON document from reader. Object member order and
// number literals are preserved.
func Parse(reader io.Reader, opts ...Option) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data, opts...)
}

// ParseBytes decodes a single JSON document.
func ParseBytes(data []byte, opts ...Option) (models.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	// Decode the whole input once so that malformed documents never produce
	// a partial tree, then rebuild it from the token stream to keep order.
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var first any
	if err := decoder.Decode(&first); err != nil {
		return nil, syntaxError(err)
	}
	var trailing any
	if err := decoder.Decode(&trailing); err == nil {
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	b := &builder{
		dec:  json.NewDecoder(bytes.NewReader(data)),
		opts: newOptions(opts),
	}
	b.dec.UseNumber()

	tok, err := b.dec.Token()
	if err != nil {
		return nil, syntaxError(err)
	}
	return b.value(tok, 0)
}

// ParseString parses JSON from a string
func ParseString(jsonString string, opts ...Option) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString), opts...)
}

// ParseFile parses a schema file. Files ending in .yaml or .yml are decoded
// as YAML, everything else as JSON.
func ParseFile(filePath string, opts ...Option) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return ParseYAML(data, opts...)
	default:
		return ParseBytes(data, opts...)
	}
}

func syntaxError(err error) error {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParsingError(
			fmt.Sprintf("invalid JSON at offset %d: %s", syntaxErr.Offset, syntaxErr.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("invalid JSON: unexpected end of input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(fmt.Sprintf("invalid JSON: %v", err), errors.ErrInvalidJSON)
}

// builder turns the token stream of an already validated document into a
// models.Value tree.
type builder struct {
	dec  *json.Decoder
	opts options
}

func (b *builder) value(tok json.Token, depth int) (models.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		if depth+1 > b.opts.maxDepth {
			return nil, errors.NewParsingError(
				fmt.Sprintf("nesting exceeds %d levels", b.opts.maxDepth),
				errors.ErrTooDeep,
			)
		}
		switch t {
		case '{':
			return b.object(depth + 1)
		case '[':
			return b.array(depth + 1)
		default:
			return nil, errors.NewParsingError(fmt.Sprintf("unexpected delimiter %q", rune(t)), errors.ErrInvalidJSON)
		}
	case string:
		return models.String(t), nil
	case json.Number:
		n, err := models.ParseNumber(t.String())
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("invalid number %q", t.String()), errors.ErrInvalidJSON)
		}
		return n, nil
	case bool:
		return models.Bool(t), nil
	case nil:
		return models.Null{}, nil
	default:
		return nil, errors.NewParsingError(fmt.Sprintf("unexpected token %v", tok), errors.ErrInvalidJSON)
	}
}

func (b *builder) object(depth int) (models.Value, error) {
	obj := models.NewObject()
	for b.dec.More() {
		keyTok, err := b.dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.NewParsingError(fmt.Sprintf("object key must be a string, got %v", keyTok), errors.ErrInvalidJSON)
		}
		valTok, err := b.dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}
		v, err := b.value(valTok, depth)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	if _, err := b.dec.Token(); err != nil { // closing '}'
		return nil, syntaxError(err)
	}
	return obj, nil
}

func (b *builder) array(depth int) (models.Value, error) {
	arr := models.Array{}
	for b.dec.More() {
		tok, err := b.dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}
		v, err := b.value(tok, depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := b.dec.Token(); err != nil { // closing ']'
		return nil, syntaxError(err)
	}
	return arr, nil
}
