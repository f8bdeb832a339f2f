package formstate

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
)

// TreeKind names one of the four state trees a subscriber can observe.
type TreeKind int

const (
	TreeData TreeKind = iota
	TreeClean
	TreeTainted
	TreeErrors
)

// Form owns the four state trees of one bound form: current data, the clean
// baseline, the tainted tree and the error tree, plus the status message.
// The trees are never aliased out without cloning; all mutation goes through
// Form methods.
//
// Go schedules preemptively, so unlike a cooperative host every tree access
// is serialized behind one mutex. Validation keeps the cooperative model's
// accepted race: a run reads live state at the time it resolves, and the
// last run to resolve wins. Callers needing strict ordering must debounce or
// cancel upstream.
type Form struct {
	mu      sync.Mutex
	id      string
	opts    Options
	log     logr.Logger
	data    *Node
	taint   *TaintEngine
	errors  *Node
	message any
	shape   Shape

	queue   taskQueue
	subs    map[TreeKind]map[int]func(*Node)
	nextSub int

	inflight *inflightSubmit
	release  func()
}

// New creates a form bound to the initial snapshot, which becomes both the
// current data and the clean baseline.
func New(initial *Node, opts ...Option) *Form {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	f := &Form{
		id:     o.ID,
		opts:   o,
		log:    o.Log,
		data:   initial.Clone(),
		taint:  NewTaintEngine(initial),
		errors: Mapping(),
		shape:  o.Shape,
		subs:   map[TreeKind]map[int]func(*Node){},
	}
	if f.shape == nil {
		if h, ok := o.Validator.(ShapeHinter); ok {
			f.shape = h.Shape()
		}
	}
	if o.Registry != nil {
		f.release = o.Registry.Register(o.ID)
	}
	return f
}

// ID returns the form identifier.
func (f *Form) ID() string { return f.id }

// Close releases the form's registry entry.
func (f *Form) Close() {
	if f.release != nil {
		f.release()
		f.release = nil
	}
}

// Data returns a deep copy of the current data tree.
func (f *Form) Data() *Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.Clone()
}

// Errors returns a deep copy of the displayed error tree.
func (f *Form) Errors() *Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Clone()
}

// Tainted returns a deep copy of the tainted tree.
func (f *Form) Tainted() *Node {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taint.State().Clone()
}

// IsTainted reports taint for the given paths, or the whole form without
// arguments.
func (f *Form) IsTainted(paths ...Path) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taint.IsTainted(paths...)
}

// Message returns the status message.
func (f *Form) Message() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// SetMessage replaces the status message.
func (f *Form) SetMessage(m any) {
	f.mu.Lock()
	f.message = m
	f.mu.Unlock()
}

// Subscribe registers fn to run with a snapshot of the given tree after each
// change. It returns an unsubscribe function.
func (f *Form) Subscribe(kind TreeKind, fn func(*Node)) func() {
	f.mu.Lock()
	if f.subs[kind] == nil {
		f.subs[kind] = map[int]func(*Node){}
	}
	id := f.nextSub
	f.nextSub++
	f.subs[kind][id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subs[kind], id)
		f.mu.Unlock()
	}
}

// notify must be called without f.mu held.
func (f *Form) notify(kind TreeKind, snapshot *Node) {
	f.mu.Lock()
	fns := make([]func(*Node), 0, len(f.subs[kind]))
	for _, fn := range f.subs[kind] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot.Clone())
	}
}

// Update replaces the whole data tree under the given taint policy.
func (f *Form) Update(newData *Node, policy TaintPolicy) {
	f.mu.Lock()
	f.taint.Update(newData, policy)
	f.data = newData.Clone()
	data, tainted := f.data, f.taint.State().Clone()
	f.mu.Unlock()
	f.log.V(1).Info("data updated", "form", f.id, "taintPolicy", int(policy))
	f.notify(TreeData, data)
	f.notify(TreeTainted, tainted)
}

// Set stores value at path under the form's default taint policy, creating
// intermediate containers as needed.
func (f *Form) Set(p Path, value *Node) {
	f.SetWithTaint(p, value, f.opts.DefaultTaint)
}

// SetWithTaint stores value at path under an explicit taint policy.
func (f *Form) SetWithTaint(p Path, value *Node, policy TaintPolicy) {
	f.mu.Lock()
	next := f.data.Clone()
	f.mu.Unlock()
	setPath(next, p, func(Path, *Node) *Node { return value.Clone() }, containerFor)
	f.Update(next, policy)
}

// FieldAccess is a get/set pair bound to one path of the form data.
type FieldAccess struct {
	form *Form
	path Path
}

// Field returns an accessor for the subtree at p.
func (f *Form) Field(p Path) FieldAccess {
	return FieldAccess{form: f, path: p.Clone()}
}

// Get returns a deep copy of the value at the field's path, or nil when
// absent.
func (a FieldAccess) Get() *Node {
	a.form.mu.Lock()
	defer a.form.mu.Unlock()
	found, ok := Lookup(a.form.data, a.path)
	if !ok {
		return nil
	}
	return found.Value.Clone()
}

// Set stores value at the field's path under the form's default taint
// policy.
func (a FieldAccess) Set(value *Node) {
	a.form.Set(a.path, value)
}

// Errors returns a deep copy of the displayed error subtree at the field's
// path, or nil.
func (a FieldAccess) Errors() *Node {
	a.form.mu.Lock()
	defer a.form.mu.Unlock()
	found, ok := Lookup(a.form.errors, a.path)
	if !ok {
		return nil
	}
	return found.Value.Clone()
}

// Validate runs the schema adapter for one change event and reconciles the
// resulting errors into the displayed tree under the event policy. When the
// validation method skips the event entirely, the adapter is not called.
//
// Application of results is deferred to the end of the current turn so taint
// updates settle first. The run reads live state when it resolves; see the
// race note on Form.
func (f *Form) Validate(ctx context.Context, ev ChangeEvent) error {
	return f.validate(ctx, ev, false)
}

// ValidateAll runs a programmatic full-form validation and displays every
// resulting error.
func (f *Form) ValidateAll(ctx context.Context) error {
	return f.validate(ctx, ChangeEvent{Type: EventProgrammatic}, true)
}

func (f *Form) validate(ctx context.Context, ev ChangeEvent, force bool) error {
	f.mu.Lock()
	v := f.opts.Validator
	pol := EventPolicy{Method: f.opts.Method, Taint: f.taint}
	f.mu.Unlock()

	if !force && !pol.ShouldValidate(ev) {
		f.log.V(1).Info("validation skipped by method", "form", f.id, "event", int(ev.Type))
		return nil
	}
	if v == nil {
		return ErrNoValidator
	}
	res, err := v.Validate(ctx, f.Data())
	if err != nil {
		// SchemaError and adapter failures surface immediately
		return err
	}
	f.queue.enqueue(func() { f.applyResult(res, ev, force) })
	f.queue.drain()
	return nil
}

// applyResult maps adapter issues into an error tree, filters it through the
// event policy, and merges it over the previous tree.
func (f *Form) applyResult(res Result, ev ChangeEvent, force bool) {
	f.mu.Lock()
	issues := res.Issues
	if f.opts.Translator != nil {
		issues = FillMessages(issues, f.opts.Translator)
	}
	newTree := MapErrors(issues, f.shape)
	pol := EventPolicy{Method: f.opts.Method, Taint: f.taint}
	decided := pol.Apply(newTree, f.errors, ev, force)
	if force {
		f.errors = MergeErrors(decided, nil, true)
	} else {
		f.errors = MergeErrors(decided, f.errors, false)
	}
	errs := f.errors.Clone()
	f.mu.Unlock()
	f.log.V(1).Info("errors reconciled", "form", f.id, "issues", len(res.Issues), "force", force)
	f.notify(TreeErrors, errs)
}

// Reset rebinds the form to a new clean snapshot, wiping taint, errors and
// message.
func (f *Form) Reset(clean *Node) {
	f.mu.Lock()
	f.data = clean.Clone()
	f.taint.SetClean(clean)
	f.errors = Mapping()
	f.message = nil
	data, tainted, errs := f.data, f.taint.State().Clone(), f.errors
	f.mu.Unlock()
	f.notify(TreeData, data)
	f.notify(TreeClean, data)
	f.notify(TreeTainted, tainted)
	f.notify(TreeErrors, errs)
}
