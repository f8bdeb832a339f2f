package formstate

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Shape is the marker tree a schema adapter may hand to MapErrors: a key is
// present iff the corresponding data path is a container (object, or array —
// array item positions are addressed through the same entry with numeric
// segments stripped). Scalar leaves never appear.
type Shape map[string]Shape

// At resolves a data path against the shape, skipping index segments: the
// shape of an array describes every element. ok is false when any named
// segment is undeclared.
func (s Shape) At(p Path) (Shape, bool) {
	cur := s
	for _, seg := range p {
		if seg.IsIndex() {
			continue
		}
		next, ok := cur[seg.Key()]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// ShapeFromYAML loads a shape from a YAML marker document. Only mapping
// values become entries; scalar values are dropped, since a shape carries
// containers only.
func ShapeFromYAML(data []byte) (Shape, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("formstate: shape yaml: %w", err)
	}
	return shapeFromAny(raw), nil
}

func shapeFromAny(raw map[string]any) Shape {
	out := Shape{}
	for k, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out[k] = shapeFromAny(m)
		}
	}
	return out
}

// FieldType names the scalar decoding applied to posted form values.
type FieldType int

const (
	// FieldUnknown means no type information could be resolved for a path;
	// decoding such a field is a SchemaError.
	FieldUnknown FieldType = iota
	FieldString
	FieldNumber
	FieldBoolean
	FieldDate
	FieldFile
	// FieldJSON decodes the posted string as a JSON document.
	FieldJSON
	// FieldUnion marks a union-typed field. Unions carry no single posted
	// representation and must travel through JSON mode; meeting one during
	// plain form decoding is a SchemaError.
	FieldUnion
)

var fieldTypeNames = map[string]FieldType{
	"string":  FieldString,
	"number":  FieldNumber,
	"boolean": FieldBoolean,
	"date":    FieldDate,
	"file":    FieldFile,
	"json":    FieldJSON,
	"union":   FieldUnion,
}

// FieldSpec describes one form field for request decoding: its scalar type,
// whether it repeats, and nested object fields.
type FieldSpec struct {
	Type   FieldType
	Array  bool
	Fields map[string]*FieldSpec
}

// UnmarshalYAML accepts either a bare type name ("string") or a mapping with
// type/array/fields keys, so descriptors stay terse for the common case.
func (f *FieldSpec) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		t, ok := fieldTypeNames[n.Value]
		if !ok {
			return fmt.Errorf("formstate: unknown field type %q", n.Value)
		}
		f.Type = t
		return nil
	case yaml.MappingNode:
		var raw struct {
			Type   string                `yaml:"type"`
			Array  bool                  `yaml:"array"`
			Fields map[string]*FieldSpec `yaml:"fields"`
		}
		if err := n.Decode(&raw); err != nil {
			return err
		}
		if raw.Type != "" {
			t, ok := fieldTypeNames[raw.Type]
			if !ok {
				return fmt.Errorf("formstate: unknown field type %q", raw.Type)
			}
			f.Type = t
		}
		f.Array = raw.Array
		f.Fields = raw.Fields
		return nil
	}
	return fmt.Errorf("formstate: field spec must be a type name or mapping")
}

// FormSpec is the field metadata for a whole form, keyed by top-level field
// name.
type FormSpec map[string]*FieldSpec

// FormSpecFromYAML loads a form descriptor.
func FormSpecFromYAML(data []byte) (FormSpec, error) {
	var out FormSpec
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("formstate: form spec yaml: %w", err)
	}
	return out, nil
}

// Shape derives the container marker tree MapErrors consumes: nested-object
// fields contribute their field shapes, array fields contribute an entry so
// array-level errors resolve to object-level semantics.
func (s FormSpec) Shape() Shape {
	out := Shape{}
	for k, f := range s {
		if f == nil {
			continue
		}
		switch {
		case f.Fields != nil:
			out[k] = FormSpec(f.Fields).Shape()
		case f.Array:
			out[k] = Shape{}
		}
	}
	return out
}
