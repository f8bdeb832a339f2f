package formstate

// ValidationMethod selects when validation runs and when its results become
// visible.
type ValidationMethod int

const (
	// MethodAuto defers entirely to per-event rule evaluation.
	MethodAuto ValidationMethod = iota
	// MethodOnInput displays matching errors as the user types.
	MethodOnInput
	// MethodOnBlur defers display until the field loses focus.
	MethodOnBlur
	// MethodOnSubmit skips all non-submit validation triggers entirely.
	MethodOnSubmit
	// MethodSubmitOnly is MethodOnSubmit without post-submit client checks.
	MethodSubmitOnly
)

// EventType classifies the interaction that produced a change.
type EventType int

const (
	EventInput EventType = iota
	EventBlur
	EventProgrammatic
	EventSubmit
)

// ChangeEvent describes one user interaction. It is produced once per
// interaction and consumed exactly once by the event policy.
type ChangeEvent struct {
	Paths []Path
	Type  EventType
	// Immediate marks single-value controls that commit on change, like
	// checkboxes and selects.
	Immediate bool
	// Multiple marks multi-select and checkbox-group controls.
	Multiple bool
}

// EventPolicy decides, per validation event, whether each freshly computed
// error is shown now, deferred, or suppressed. It has no state of its own;
// every decision reads the ambient taint engine and the previously displayed
// error tree, which is what makes the sticky and sibling rules history-
// dependent.
type EventPolicy struct {
	Method ValidationMethod
	Taint  *TaintEngine
}

// ShouldValidate reports whether a validation run is made at all for an
// event. OnSubmit and SubmitOnly skip every non-submit trigger; no adapter
// call happens for them.
func (ep EventPolicy) ShouldValidate(ev ChangeEvent) bool {
	switch ep.Method {
	case MethodOnSubmit, MethodSubmitOnly:
		return ev.Type == EventSubmit
	}
	return true
}

// Apply walks every error leaf of newTree and decides its visibility for the
// given event. Displayed leaves are copied to the result; suppressed ones are
// written as explicit Undefined at their path — suppressed but remembered,
// never silently dropped. prev is the currently displayed error tree.
func (ep EventPolicy) Apply(newTree, prev *Node, ev ChangeEvent, force bool) *Node {
	out := Mapping()
	WalkAll(newTree, func(p Path, n *Node) bool {
		if n.Kind() != KindSequence {
			return true
		}
		if ep.display(p, n, prev, ev, force) {
			setFlatPath(out, p, func(Path, *Node) *Node { return n.Clone() })
		} else {
			setFlatPath(out, p, func(Path, *Node) *Node { return Undefined() })
		}
		return true
	})
	return out
}

func (ep EventPolicy) display(p Path, n *Node, prev *Node, ev ChangeEvent, force bool) bool {
	// 1. programmatic full-form validation with update requested
	if force {
		return true
	}

	isObject := !p.Last().IsIndex() && p.Last().Key() == ErrorsKey
	errPath := p
	if isObject {
		errPath = p[:len(p)-1]
	}
	isEventError := ep.eventError(errPath, p, isObject, ev)

	// 3. oninput shows matching errors immediately, whatever the event type
	if ep.Method == MethodOnInput && isEventError {
		return true
	}
	// 4. fast path for single-value immediate inputs (checkboxes, selects)
	if ev.Immediate && !ev.Multiple && isEventError {
		return true
	}
	// 5. multi-select groups: once one member shows an error, siblings follow
	if ev.Multiple && siblingDisplayed(prev, p.Parent()) {
		return true
	}
	// 6. sticky display: once shown at this exact path, always re-show
	if _, ok := Lookup(prev, p); ok {
		return true
	}
	if isObject {
		// 7. object-level errors wait for blur on a subtree with taint history
		if ep.Method == MethodOnInput {
			return true
		}
		return ev.Type == EventBlur && ep.Taint != nil && ep.Taint.HasBeenTainted(errPath)
	}
	// 8. leaf errors show on blur of the field that changed
	return ev.Type == EventBlur && isEventError
}

// eventError reports whether the error's path intersects the event's changed
// paths: object errors match by first segment, leaf errors require an exact
// match.
func (ep EventPolicy) eventError(errPath, full Path, isObject bool, ev ChangeEvent) bool {
	for _, q := range ev.Paths {
		if isObject {
			if len(errPath) > 0 && len(q) > 0 && errPath[0].Equal(q[0]) {
				return true
			}
			continue
		}
		if full.Equal(q) {
			return true
		}
	}
	return false
}

// siblingDisplayed reports whether any entry under parent currently shows
// messages in the displayed error tree.
func siblingDisplayed(prev *Node, parent Path) bool {
	f, ok := Lookup(prev, parent)
	if !ok && len(parent) > 0 {
		return false
	}
	node := f.Value
	if len(parent) == 0 {
		node = prev
	}
	if node.Kind() != KindMapping {
		return false
	}
	for _, k := range node.Keys() {
		c, _ := node.Get(k)
		if c.Kind() == KindSequence && c.Len() > 0 {
			return true
		}
	}
	return false
}
