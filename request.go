package formstate

import (
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/formstate/codec"
)

// PostedValue is one entry of a multipart submission body: either a text
// value or an uploaded file. Exactly one of the two is set.
type PostedValue struct {
	Text string
	File *File
}

// DecodeJSON parses a JSON submission body into a data tree. A malformed or
// absent body degrades to an empty form: a non-POST navigation or a corrupt
// body is a normal occurrence and must not break page rendering.
func DecodeJSON(body []byte) *Node {
	var raw map[string]any
	if len(body) == 0 || gojson.Unmarshal(body, &raw) != nil {
		return Mapping()
	}
	return FromAny(raw)
}

// DecodeForm converts a multipart keyed payload into a data tree guided by
// the form's field metadata. Keys are canonical path strings ("address.city");
// repeated keys feed array fields. Posted keys with no spec entry are
// dropped. Coercion failures on posted data yield Undefined leaves — bad
// input is a validation concern, not an engine failure — while missing or
// unusable type metadata is a SchemaError and fatal.
func DecodeForm(values map[string][]PostedValue, spec FormSpec) (*Node, error) {
	out := Mapping()
	if err := decodeFields(out, nil, spec, values); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeFields(out *Node, prefix Path, spec FormSpec, values map[string][]PostedValue) error {
	keys := make([]string, 0, len(spec))
	for k := range spec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fs := spec[k]
		p := prefix.Field(k)
		if fs == nil {
			return schemaErrorf(p, "no resolvable type information")
		}
		switch {
		case fs.Fields != nil && !fs.Array:
			child := Mapping()
			if err := decodeFields(child, p, FormSpec(fs.Fields), values); err != nil {
				return err
			}
			out.Set(k, child)
		case fs.Array:
			seq, err := decodeArray(p, fs, values[p.String()])
			if err != nil {
				return err
			}
			out.Set(k, seq)
		default:
			node, err := decodeScalar(p, fs.Type, values[p.String()])
			if err != nil {
				return err
			}
			out.Set(k, node)
		}
	}
	return nil
}

func decodeArray(p Path, fs *FieldSpec, vs []PostedValue) (*Node, error) {
	seq := Sequence()
	switch {
	case fs.Fields != nil:
		// arrays of objects travel as one JSON document per entry
		for _, v := range vs {
			var raw map[string]any
			if gojson.Unmarshal([]byte(v.Text), &raw) != nil {
				seq.Append(Undefined())
				continue
			}
			seq.Append(FromAny(raw))
		}
		return seq, nil
	case fs.Type == FieldUnknown:
		return nil, schemaErrorf(p, "array field missing item type metadata")
	}
	for i, v := range vs {
		node, err := coerce(p.Index(i), fs.Type, v, true)
		if err != nil {
			return nil, err
		}
		seq.Append(node)
	}
	return seq, nil
}

func decodeScalar(p Path, t FieldType, vs []PostedValue) (*Node, error) {
	if len(vs) == 0 {
		return coerce(p, t, PostedValue{}, false)
	}
	return coerce(p, t, vs[0], true)
}

// coerce turns one posted entry into a leaf node. posted is false when the
// key was absent from the body, which decodes to the type's empty value.
func coerce(p Path, t FieldType, v PostedValue, posted bool) (*Node, error) {
	switch t {
	case FieldString:
		return Scalar(v.Text), nil
	case FieldBoolean:
		// unchecked checkboxes are simply absent from the body
		return Scalar(v.Text == "on" || v.Text == "true" || v.Text == "1"), nil
	case FieldNumber:
		if !posted || v.Text == "" {
			return Undefined(), nil
		}
		n, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return Undefined(), nil
		}
		return Scalar(n), nil
	case FieldDate:
		if !posted || v.Text == "" {
			return Undefined(), nil
		}
		ts, err := codec.ParseRFC3339(v.Text)
		if err != nil {
			return Undefined(), nil
		}
		return Scalar(ts), nil
	case FieldFile:
		if v.File == nil {
			return Undefined(), nil
		}
		return Scalar(v.File), nil
	case FieldJSON:
		if !posted || v.Text == "" {
			return Undefined(), nil
		}
		var raw any
		if gojson.Unmarshal([]byte(v.Text), &raw) != nil {
			return Undefined(), nil
		}
		return FromAny(raw), nil
	case FieldUnion:
		return nil, schemaErrorf(p, "union type requires JSON mode")
	}
	return nil, schemaErrorf(p, "no resolvable type information")
}
