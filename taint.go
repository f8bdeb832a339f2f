package formstate

// TaintPolicy controls how a data update affects the tainted tree.
type TaintPolicy int

const (
	// Taint marks every changed path as tainted. It is the zero value: a
	// user edit dirties the form unless a policy says otherwise.
	Taint TaintPolicy = iota
	// TaintNone leaves per-path taint state as it was, except for paths
	// whose value returned to the clean baseline, which always heal.
	TaintNone
	// Untaint clears taint at every changed path.
	Untaint
	// UntaintAll resets the whole tainted tree when anything changed.
	UntaintAll
	// UntaintForm resets the whole tainted tree when anything changed.
	// Separate from UntaintAll so callers can distinguish form-level resets
	// (e.g. applying an action result) from explicit untaint-all requests.
	UntaintForm
	// TaintIgnore advances the engine's view of the data without touching
	// taint at all. Used when applying server-returned data that must not
	// affect taint.
	TaintIgnore
)

// TaintEngine tracks which paths of the form data a user has modified. It
// holds the clean baseline snapshot and a tainted tree mirroring the data
// shape, where a leaf is true (tainted), an explicit Undefined (previously
// tainted, now clean), or absent (never tainted). The Undefined/absent
// distinction is what lets progressive validation tell "has an error ever
// been shown here" apart from "is this currently clean".
type TaintEngine struct {
	clean   *Node
	current *Node
	state   *Node
}

// NewTaintEngine creates an engine with clean as baseline and current data.
func NewTaintEngine(clean *Node) *TaintEngine {
	return &TaintEngine{
		clean:   clean.Clone(),
		current: clean.Clone(),
		state:   Mapping(),
	}
}

// Update advances the engine to newData under the given policy. Paths whose
// value exactly matches the clean baseline heal regardless of the policy or
// any transient edit history: a field put back to its original value is never
// shown as dirty.
func (t *TaintEngine) Update(newData *Node, policy TaintPolicy) {
	if policy == TaintIgnore {
		t.current = newData.Clone()
		return
	}
	changed := ComparePaths(newData, t.current)
	stillDirty := map[string]struct{}{}
	for _, p := range ComparePaths(newData, t.clean) {
		stillDirty[p.String()] = struct{}{}
	}
	t.current = newData.Clone()

	if len(changed) > 0 && (policy == UntaintAll || policy == UntaintForm) {
		t.state = Mapping()
		return
	}
	for _, p := range changed {
		if _, dirty := stillDirty[p.String()]; !dirty {
			// value returned to the clean baseline: heal to explicit
			// Undefined, keeping the key as taint history
			healTaint(t.state, p)
			continue
		}
		switch policy {
		case Taint:
			setFlatPath(t.state, p, func(Path, *Node) *Node { return Scalar(true) })
		case Untaint:
			healTaint(t.state, p)
		default:
			// TaintNone: preserve whatever state the path had
		}
	}
}

// healTaint writes an explicit Undefined over an existing taint entry; a path
// that was never tainted stays absent.
func healTaint(state *Node, p Path) {
	if _, ok := Lookup(state, p); !ok {
		return
	}
	setFlatPath(state, p, func(Path, *Node) *Node { return Undefined() })
}

// IsTainted reports whether any reachable leaf under the given paths is
// tainted. With no arguments the whole tree is checked. Tainting a nested
// field taints all of its ancestors for display purposes, not vice versa.
func (t *TaintEngine) IsTainted(paths ...Path) bool {
	if len(paths) == 0 {
		return subtreeTainted(t.state)
	}
	for _, p := range paths {
		f, ok := Lookup(t.state, p)
		if ok && subtreeTainted(f.Value) {
			return true
		}
	}
	return false
}

func subtreeTainted(n *Node) bool {
	switch n.Kind() {
	case KindScalar:
		v, _ := n.ScalarValue().(bool)
		return v
	case KindMapping:
		for _, k := range n.Keys() {
			c, _ := n.Get(k)
			if subtreeTainted(c) {
				return true
			}
		}
	case KindSequence:
		for i := 0; i < n.Len(); i++ {
			if subtreeTainted(n.At(i)) {
				return true
			}
		}
	}
	return false
}

// HasBeenTainted reports whether the path exists as an explicit entry in the
// tainted tree, whether currently tainted or healed to Undefined. This is
// taint history, not current dirtiness; object-level error display keys off
// it.
func (t *TaintEngine) HasBeenTainted(p Path) bool {
	if len(p) == 0 {
		return t.state.Len() > 0
	}
	_, ok := Lookup(t.state, p)
	return ok
}

// SetClean replaces the baseline and current snapshots and resets all taint.
// Used on form reset and full rebind.
func (t *TaintEngine) SetClean(clean *Node) {
	t.clean = clean.Clone()
	t.current = clean.Clone()
	t.state = Mapping()
}

// RestoreState installs a previously captured tainted tree. Used when
// rebuilding engine state from a snapshot.
func (t *TaintEngine) RestoreState(state *Node) {
	if state == nil {
		t.state = Mapping()
		return
	}
	t.state = state.Clone()
}

// State returns the tainted tree. Callers must not mutate it.
func (t *TaintEngine) State() *Node { return t.state }
