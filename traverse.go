package formstate

// Found is the result of a successful Lookup: the resolved value together
// with its parent container and the segment addressing it.
type Found struct {
	Parent *Node
	Key    Segment
	Value  *Node
	Path   Path
}

// Lookup walks root along p. It fails when any intermediate segment is
// missing or addresses a non-container. The root itself is returned for an
// empty path, with a nil parent.
func Lookup(root *Node, p Path) (Found, bool) {
	if len(p) == 0 {
		return Found{Value: root}, root != nil
	}
	cur := root
	for i, seg := range p {
		if !cur.IsContainer() {
			return Found{}, false
		}
		child, ok := cur.child(seg)
		if i == len(p)-1 {
			if !cur.Has(seg) {
				return Found{}, false
			}
			return Found{Parent: cur, Key: seg, Value: child, Path: p}, true
		}
		if !ok {
			return Found{}, false
		}
		cur = child
	}
	return Found{}, false
}

// Visit is the per-step payload handed to a Traverse visitor.
type Visit struct {
	Value  *Node
	Parent *Node
	Key    Segment
	Path   Path
}

// Traverse walks root along p, invoking visit at every step. When an
// intermediate entry is missing or not a container, the visitor's return
// value (if non-nil) is installed at that position and the walk continues
// through it; a nil return aborts the walk. This is the write-through
// creation primitive every setter builds on.
//
// A nil visitor materializes default containers: a sequence when the next
// segment is an index, a mapping otherwise.
func Traverse(root *Node, p Path, visit func(v Visit) *Node) (Found, bool) {
	if len(p) == 0 || !root.IsContainer() {
		return Found{}, false
	}
	cur := root
	for i, seg := range p {
		child, _ := cur.child(seg)
		if visit != nil {
			if repl := visit(Visit{Value: child, Parent: cur, Key: seg, Path: p[:i+1]}); repl != nil && repl != child {
				storeChild(cur, seg, repl)
				child = repl
			}
		}
		if i == len(p)-1 {
			return Found{Parent: cur, Key: seg, Value: child, Path: p}, true
		}
		if !child.IsContainer() {
			if visit != nil {
				return Found{}, false
			}
			child = containerFor(p[i+1])
			storeChild(cur, seg, child)
		}
		cur = child
	}
	return Found{}, false
}

// containerFor picks the container kind materialized for a missing
// intermediate, based on the segment that will address into it.
func containerFor(next Segment) *Node {
	if next.IsIndex() {
		return Sequence()
	}
	return Mapping()
}

// storeChild attaches child under parent at seg. It reports false when the
// parent cannot hold the segment (a non-index key against a sequence).
func storeChild(parent *Node, seg Segment, child *Node) bool {
	switch parent.Kind() {
	case KindMapping:
		parent.Set(seg.Key(), child)
		return true
	case KindSequence:
		if seg.IsIndex() {
			parent.SetAt(seg.Index(), child)
			return true
		}
	}
	return false
}

// Updater computes the node stored at a path from its previous value. The
// previous value is nil when the entry was absent.
type Updater func(p Path, prev *Node) *Node

// SetPaths stores a clone of value at every path, creating intermediate
// containers as needed.
func SetPaths(root *Node, paths []Path, value *Node) {
	UpdatePaths(root, paths, func(Path, *Node) *Node { return value.Clone() })
}

// UpdatePaths applies fn at every path, creating intermediate containers as
// needed. fn enables conditional overwrite: returning prev leaves the entry
// untouched.
func UpdatePaths(root *Node, paths []Path, fn Updater) {
	for _, p := range paths {
		setPath(root, p, fn, containerFor)
	}
}

// setFlatPath is setPath for taint and error trees, which mirror sequences as
// mappings with decimal keys so that absence, explicit Undefined, and message
// leaves can coexist at any depth.
func setFlatPath(root *Node, p Path, fn Updater) bool {
	return setPath(root, p, fn, func(Segment) *Node { return Mapping() })
}

// setPath walks to p's leaf with write-through creation and applies fn.
// choose picks the container materialized for a missing intermediate, given
// the segment that will address into it. It fails (returns false) when an
// existing intermediate is a non-container leaf, so callers can demote
// instead of clobbering.
func setPath(root *Node, p Path, fn Updater, choose func(next Segment) *Node) bool {
	if len(p) == 0 || !root.IsContainer() {
		return false
	}
	cur := root
	for i, seg := range p {
		if i == len(p)-1 {
			prev, _ := cur.child(seg)
			return storeChild(cur, seg, fn(p, prev))
		}
		child, ok := cur.child(seg)
		if !ok || !child.IsContainer() {
			if ok && child.Kind() == KindScalar {
				return false
			}
			child = choose(p[i+1])
			if !storeChild(cur, seg, child) {
				return false
			}
		}
		cur = child
	}
	return false
}

// DeletePath removes the entry at p entirely: mapping keys are deleted,
// sequence slots become absent (nil). Missing intermediates are a no-op.
func DeletePath(root *Node, p Path) {
	if len(p) == 0 {
		return
	}
	f, ok := Lookup(root, p)
	if !ok || f.Parent == nil {
		return
	}
	switch f.Parent.Kind() {
	case KindMapping:
		f.Parent.Delete(f.Key.Key())
	case KindSequence:
		if f.Key.IsIndex() {
			f.Parent.items[f.Key.Index()] = nil
		}
	}
}

// WalkAll visits every non-root node depth-first, parents before children.
// Sequence nodes are visited but never descended into: a sequence is a leaf
// under this walk. This is the rule all error-tree walks rely on, where a
// sequence of message strings is one leaf, not a collection. Returning false
// from visit stops the walk.
func WalkAll(root *Node, visit func(p Path, n *Node) bool) {
	walkAll(root, nil, visit)
}

func walkAll(n *Node, p Path, visit func(p Path, n *Node) bool) bool {
	if n.Kind() != KindMapping {
		return true
	}
	for _, k := range n.Keys() {
		child, _ := n.Get(k)
		cp := append(p.Clone(), FieldSegment(k))
		if !visit(cp, child) {
			return false
		}
		if child.Kind() == KindMapping {
			if !walkAll(child, cp, visit) {
				return false
			}
		}
	}
	return true
}
