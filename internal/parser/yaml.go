package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"

	stderrors "errors"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/schemaref/internal/errors"
	"github.com/mcncl/schemaref/internal/models"
)

// ParseYAML decodes a single YAML document holding a schema. Mapping order
// is preserved; integers too large for an int64 become big integers.
func ParseYAML(data []byte, opts ...Option) (models.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input contains no YAML document", errors.ErrEmptyInput)
		}
		return nil, errors.NewParsingError(fmt.Sprintf("invalid YAML: %v", err), errors.ErrInvalidJSON)
	}
	var next yaml.Node
	if err := dec.Decode(&next); err == nil {
		return nil, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError("invalid trailing YAML document", err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.NewParsingError("input contains no YAML document", errors.ErrEmptyInput)
	}
	o := newOptions(opts)
	b := &yamlBuilder{maxDepth: o.maxDepth, budget: yamlNodeBudget(len(data))}
	return b.value(doc.Content[0], 0)
}

const (
	minYAMLNodes     = 10000
	yamlNodesPerByte = 16
)

// yamlNodeBudget bounds how many values a document of size bytes may
// produce. Without aliases every value costs at least one byte of input,
// so only alias expansion can reach the limit.
func yamlNodeBudget(size int) int {
	return max(minYAMLNodes, size*yamlNodesPerByte)
}

type yamlBuilder struct {
	maxDepth int
	budget   int
	built    int
}

func (b *yamlBuilder) value(node *yaml.Node, depth int) (models.Value, error) {
	b.built++
	if b.built > b.budget {
		return nil, errors.NewParsingError(
			fmt.Sprintf("line %d column %d: aliases expand beyond %d values", node.Line, node.Column, b.budget),
			errors.ErrTooLarge,
		)
	}

	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode, yaml.AliasNode:
		if depth+1 > b.maxDepth {
			return nil, errors.NewParsingError(fmt.Sprintf("nesting exceeds %d levels", b.maxDepth), errors.ErrTooDeep)
		}
	}

	switch node.Kind {
	case yaml.MappingNode:
		obj := models.NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, yamlError(key, "mapping keys must be scalars")
			}
			v, err := b.value(node.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make(models.Array, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := b.value(item, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.AliasNode:
		return b.value(node.Alias, depth+1)
	case yaml.ScalarNode:
		return yamlScalar(node)
	default:
		return nil, yamlError(node, "unsupported YAML node")
	}
}

func yamlScalar(node *yaml.Node) (models.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return models.Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, yamlError(node, err.Error())
		}
		return models.Bool(b), nil
	case "!!int":
		if n, err := models.ParseNumber(node.Value); err == nil {
			return n, nil
		}
		// Hex, octal and underscore forms.
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, yamlError(node, err.Error())
		}
		return models.NewInt(i), nil
	case "!!float":
		if n, err := models.ParseNumber(node.Value); err == nil {
			return n, nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, yamlError(node, err.Error())
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, yamlError(node, "non-finite numbers have no JSON representation")
		}
		return models.NewFloat(f), nil
	default:
		return models.String(node.Value), nil
	}
}

func yamlError(node *yaml.Node, msg string) error {
	return errors.NewParsingError(
		fmt.Sprintf("line %d column %d: %s", node.Line, node.Column, msg),
		errors.ErrInvalidJSON,
	)
}
