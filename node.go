package formstate

import (
	"sort"
	"time"
)

// Kind discriminates the variants of a tree node.
type Kind uint8

const (
	// KindUndefined is the explicit "present but undefined" sentinel. It is
	// distinct from absence: a mapping key holding an Undefined node has a
	// different meaning than a missing key, and taint/error reconciliation
	// depends on that difference.
	KindUndefined Kind = iota
	KindScalar
	KindMapping
	KindSequence
)

// File is a binary attachment scalar. Files compare by identity: two *File
// values are equal only when they are the same pointer.
type File struct {
	Name string
	Data []byte
}

// Node is one node of a data, error, or tainted tree: a tagged variant over
// scalar leaves, insertion-ordered mappings, and sequences. Sequences may
// contain nil elements, which represent absent entries (as opposed to
// explicit Undefined nodes).
type Node struct {
	kind   Kind
	scalar any
	keys   []string
	fields map[string]*Node
	items  []*Node
}

// Undefined returns a fresh explicit-undefined node.
func Undefined() *Node { return &Node{kind: KindUndefined} }

// Scalar returns a leaf node. Supported values are string, bool, nil,
// integer and float types (normalized to int64/float64), time.Time, []byte
// and *File.
func Scalar(v any) *Node {
	return &Node{kind: KindScalar, scalar: normalizeScalar(v)}
}

// Mapping returns an empty insertion-ordered mapping node.
func Mapping() *Node {
	return &Node{kind: KindMapping, fields: map[string]*Node{}}
}

// Sequence returns an empty sequence node.
func Sequence(items ...*Node) *Node {
	return &Node{kind: KindSequence, items: items}
}

func normalizeScalar(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

// Kind returns the node's variant. A nil node reports KindUndefined.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindUndefined
	}
	return n.kind
}

// IsContainer reports whether the node is a mapping or sequence.
func (n *Node) IsContainer() bool {
	k := n.Kind()
	return k == KindMapping || k == KindSequence
}

// ScalarValue returns the scalar payload, or nil for non-scalar nodes.
func (n *Node) ScalarValue() any {
	if n == nil || n.kind != KindScalar {
		return nil
	}
	return n.scalar
}

// Len returns the number of mapping keys or sequence elements.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.items)
	}
	return 0
}

// Keys returns mapping keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindMapping {
		return nil
	}
	return n.keys
}

// Get returns the mapping child for key. ok is false when the key is absent;
// an explicit Undefined child returns (node, true).
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.kind != KindMapping {
		return nil, false
	}
	c, ok := n.fields[key]
	return c, ok
}

// Set inserts or replaces the mapping child for key, preserving insertion
// order for existing keys.
func (n *Node) Set(key string, child *Node) {
	if n.kind != KindMapping {
		return
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

// Delete removes key from the mapping entirely (absence, not Undefined).
func (n *Node) Delete(key string) {
	if n == nil || n.kind != KindMapping {
		return
	}
	if _, ok := n.fields[key]; !ok {
		return
	}
	delete(n.fields, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
}

// At returns the sequence element at i, or nil when out of range or absent.
func (n *Node) At(i int) *Node {
	if n == nil || n.kind != KindSequence || i < 0 || i >= len(n.items) {
		return nil
	}
	return n.items[i]
}

// Has reports whether the entry addressed by seg exists explicitly: a present
// mapping key (even with an Undefined value) or an in-range non-nil sequence
// element.
func (n *Node) Has(seg Segment) bool {
	if n == nil {
		return false
	}
	switch n.kind {
	case KindMapping:
		_, ok := n.fields[seg.Key()]
		return ok
	case KindSequence:
		if !seg.IsIndex() {
			return false
		}
		i := seg.Index()
		return i >= 0 && i < len(n.items) && n.items[i] != nil
	}
	return false
}

// Append adds an element to the end of a sequence.
func (n *Node) Append(child *Node) {
	if n.kind != KindSequence {
		return
	}
	n.items = append(n.items, child)
}

// SetAt stores a sequence element, growing the sequence with absent (nil)
// entries as needed.
func (n *Node) SetAt(i int, child *Node) {
	if n.kind != KindSequence || i < 0 {
		return
	}
	for len(n.items) <= i {
		n.items = append(n.items, nil)
	}
	n.items[i] = child
}

// child resolves one segment against the node, honoring the explicit
// presence semantics of Has.
func (n *Node) child(seg Segment) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	switch n.kind {
	case KindMapping:
		return n.Get(seg.Key())
	case KindSequence:
		if !seg.IsIndex() {
			return nil, false
		}
		c := n.At(seg.Index())
		return c, c != nil
	}
	return nil, false
}

// Clone returns a deep copy. File scalars keep their pointer so identity
// comparison survives cloning.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindScalar:
		return &Node{kind: KindScalar, scalar: n.scalar}
	case KindUndefined:
		return &Node{kind: KindUndefined}
	case KindMapping:
		out := Mapping()
		for _, k := range n.keys {
			out.Set(k, n.fields[k].Clone())
		}
		return out
	case KindSequence:
		out := Sequence()
		for _, it := range n.items {
			out.Append(it.Clone())
		}
		return out
	}
	return nil
}

// FromAny converts a native any-graph (map[string]any, []any, scalars) into a
// Node tree. Map keys are visited in sorted order to keep traversal
// deterministic; the host graph carries no declaration order. This is the
// adapter boundary: the core beyond this point never probes native types.
func FromAny(v any) *Node {
	switch t := v.(type) {
	case nil:
		return Scalar(nil)
	case *Node:
		return t
	case map[string]any:
		out := Mapping()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out.Set(k, FromAny(t[k]))
		}
		return out
	case []any:
		out := Sequence()
		for _, it := range t {
			out.Append(FromAny(it))
		}
		return out
	case []string:
		out := Sequence()
		for _, it := range t {
			out.Append(Scalar(it))
		}
		return out
	default:
		return Scalar(v)
	}
}

// Interface converts the tree back into a native any-graph. Undefined nodes
// become nil map entries; absent sequence slots become nil elements.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindScalar:
		return n.scalar
	case KindUndefined:
		return nil
	case KindMapping:
		out := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			out[k] = n.fields[k].Interface()
		}
		return out
	case KindSequence:
		out := make([]any, 0, len(n.items))
		for _, it := range n.items {
			out = append(out, it.Interface())
		}
		return out
	}
	return nil
}

// scalarEqual implements leaf value equality: time.Time by instant, *File by
// pointer identity, numbers by value across int64/float64.
func scalarEqual(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case *File:
		bv, ok := b.(*File)
		return ok && av == bv
	case []byte:
		bv, ok := b.([]byte)
		return ok && string(av) == string(bv)
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
