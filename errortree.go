package formstate

// ErrorsKey is the reserved mapping key carrying messages attached to a
// subtree as a whole (object-level errors), as opposed to messages stored
// directly at a leaf path.
const ErrorsKey = "_errors"

// MapErrors builds an error tree from adapter issues. The tree mirrors the
// data shape as nested mappings (sequence positions become decimal keys);
// every leaf is a sequence of message strings.
//
// An issue with an empty path lands in the root's "_errors". Otherwise the
// issue is an object-level error — appended under "_errors" at its path —
// when the last segment is not numeric and the index-stripped path resolves
// in shape; else it is appended directly as a leaf. Issues whose path cannot
// be resolved (walking through a non-container) are demoted to form-level
// errors rather than dropped.
func MapErrors(issues Issues, shape Shape) *Node {
	out := Mapping()
	for _, iss := range issues {
		p := iss.Path
		if len(p) == 0 {
			appendRootError(out, iss.Message)
			continue
		}
		target := p
		if !p.Last().IsIndex() && shape != nil {
			if _, ok := shape.At(p); ok {
				target = append(p.Clone(), FieldSegment(ErrorsKey))
			}
		}
		if !appendMessage(out, target, iss.Message) {
			appendRootError(out, iss.Message)
		}
	}
	return out
}

func appendRootError(root *Node, msg string) {
	appendMessage(root, Path{FieldSegment(ErrorsKey)}, msg)
}

// appendMessage appends msg to the message sequence at p, creating
// intermediate mappings as needed. It reports false when the path walks
// through an existing non-container.
func appendMessage(root *Node, p Path, msg string) bool {
	return setFlatPath(root, p, func(_ Path, prev *Node) *Node {
		switch prev.Kind() {
		case KindSequence:
			prev.Append(Scalar(msg))
			return prev
		case KindMapping:
			// a subtree already lives here; attach as an object-level error
			// instead of clobbering children
			appendMessage(prev, Path{FieldSegment(ErrorsKey)}, msg)
			return prev
		default:
			return Sequence(Scalar(msg))
		}
	})
}

// FlatError is one flattened error-tree entry.
type FlatError struct {
	Path     string
	Messages []string
}

// FlattenErrors walks the error tree (sequences are leaves) and returns one
// entry per non-empty message sequence, skipping Undefined entries. Paths are
// rendered in canonical string form.
func FlattenErrors(root *Node) []FlatError {
	var out []FlatError
	WalkAll(root, func(p Path, n *Node) bool {
		if n.Kind() != KindSequence || n.Len() == 0 {
			return true
		}
		msgs := make([]string, 0, n.Len())
		for i := 0; i < n.Len(); i++ {
			if s, ok := n.At(i).ScalarValue().(string); ok {
				msgs = append(msgs, s)
			}
		}
		out = append(out, FlatError{Path: p.String(), Messages: msgs})
		return true
	})
	return out
}

// MergeErrors reconciles a freshly computed error tree with the previously
// displayed one. With force the new tree replaces the previous wholesale.
// Otherwise every message leaf currently in prev is first set to Undefined —
// the key stays, recording "an error was visible here and may reappear" —
// and then every message leaf or explicit Undefined from newTree is written
// over it. prev is mutated and returned.
//
// Downstream display logic tells "no error ever" (key absent) apart from
// "error cleared" (key present, Undefined); plain tree replacement would
// lose that.
func MergeErrors(newTree, prev *Node, force bool) *Node {
	if force || prev == nil {
		if force {
			return newTree
		}
		prev = Mapping()
	}
	var cleared []Path
	WalkAll(prev, func(p Path, n *Node) bool {
		if n.Kind() == KindSequence {
			cleared = append(cleared, p)
		}
		return true
	})
	for _, p := range cleared {
		setFlatPath(prev, p, func(Path, *Node) *Node { return Undefined() })
	}
	WalkAll(newTree, func(p Path, n *Node) bool {
		if k := n.Kind(); k == KindSequence || k == KindUndefined {
			setFlatPath(prev, p, func(Path, *Node) *Node { return n.Clone() })
		}
		return true
	})
	return prev
}
