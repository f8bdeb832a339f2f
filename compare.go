package formstate

// ComparePaths produces every leaf path whose value differs between a and b,
// depth-first in a's key/element order, then paths only b knows about.
// Sequences differ when their lengths differ or any element (recursively)
// differs; *File leaves differ unless they are the same pointer; time.Time
// leaves differ unless they denote the same instant.
func ComparePaths(a, b *Node) []Path {
	seen := map[string]struct{}{}
	var out []Path
	add := func(p Path) {
		key := p.String()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p.Clone())
	}
	diffInto(nil, a, b, add)
	diffInto(nil, b, a, add)
	return out
}

// diffInto walks x depth-first, emitting the leaf paths where x's value
// disagrees with y's value at the same address.
func diffInto(p Path, x, y *Node, add func(Path)) {
	switch x.Kind() {
	case KindScalar:
		if y.Kind() != KindScalar || !scalarEqual(x.ScalarValue(), y.ScalarValue()) {
			add(p)
		}
	case KindUndefined:
		if y != nil && y.Kind() != KindUndefined {
			add(p)
		}
	case KindMapping:
		if y.Kind() != KindMapping {
			emitLeaves(p, x, add)
			return
		}
		for _, k := range x.Keys() {
			xc, _ := x.Get(k)
			yc, ok := y.Get(k)
			cp := append(p.Clone(), FieldSegment(k))
			if !ok {
				emitLeaves(cp, xc, add)
				continue
			}
			diffInto(cp, xc, yc, add)
		}
	case KindSequence:
		if y.Kind() != KindSequence {
			emitLeaves(p, x, add)
			return
		}
		for i := 0; i < x.Len(); i++ {
			xc := x.At(i)
			cp := append(p.Clone(), IndexSegment(i))
			if i >= y.Len() {
				emitLeaves(cp, xc, add)
				continue
			}
			diffInto(cp, xc, y.At(i), add)
		}
	}
}

// emitLeaves reports every leaf under n as differing; used when the
// counterpart side is missing or of another kind.
func emitLeaves(p Path, n *Node, add func(Path)) {
	switch n.Kind() {
	case KindScalar, KindUndefined:
		add(p)
	case KindMapping:
		if n.Len() == 0 {
			add(p)
			return
		}
		for _, k := range n.Keys() {
			c, _ := n.Get(k)
			emitLeaves(append(p.Clone(), FieldSegment(k)), c, add)
		}
	case KindSequence:
		if n.Len() == 0 {
			add(p)
			return
		}
		for i := 0; i < n.Len(); i++ {
			emitLeaves(append(p.Clone(), IndexSegment(i)), n.At(i), add)
		}
	}
}
