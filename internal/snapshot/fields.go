package snapshot

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field is one column value of a row.
type Field struct {
	Name  string
	Value interface{}
}

// Fields is an ordered column -> value mapping. It marshals as a YAML mapping
// in column order rather than sorted by key.
type Fields []Field

// Map returns the fields as a map.
func (f Fields) Map() map[string]interface{} {
	if f == nil {
		return nil
	}
	out := make(map[string]interface{}, len(f))
	for _, field := range f {
		out[field.Name] = field.Value
	}
	return out
}

// MarshalYAML implements yaml.Marshaler.
func (f Fields) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, field := range f {
		var val yaml.Node
		if err := val.Encode(field.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Name},
			&val)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: row values must be a mapping", node.Line)
	}
	out := make(Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v interface{}
		if err := node.Content[i+1].Decode(&v); err != nil {
			return err
		}
		out = append(out, Field{Name: node.Content[i].Value, Value: v})
	}
	*f = out
	return nil
}
