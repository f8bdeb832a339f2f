package formstate

import (
	"github.com/go-logr/logr"

	"github.com/reoring/formstate/i18n"
)

// SubmitPolicy governs multiple concurrent submissions.
type SubmitPolicy int

const (
	// SubmitPrevent rejects a new submit while one is in flight.
	SubmitPrevent SubmitPolicy = iota
	// SubmitAllow lets concurrent submissions proceed.
	SubmitAllow
	// SubmitAbort cancels the in-flight submission before starting the new
	// one.
	SubmitAbort
)

// Options bundles form configuration. The zero value is usable: auto
// validation, taint-on-change, prevent concurrent submits, no logger.
type Options struct {
	ID           string
	Method       ValidationMethod
	DefaultTaint TaintPolicy
	Submits      SubmitPolicy
	Validator    Validator
	Shape        Shape
	Registry     *Registry
	Translator   i18n.Translator
	Log          logr.Logger
}

// Option mutates Options during New.
type Option func(*Options)

// WithID sets the form identifier used by the registry and snapshots.
func WithID(id string) Option {
	return func(o *Options) { o.ID = id }
}

// WithValidationMethod selects the validation timing policy.
func WithValidationMethod(m ValidationMethod) Option {
	return func(o *Options) { o.Method = m }
}

// WithDefaultTaint sets the taint policy applied by Set and Update when the
// caller does not choose one.
func WithDefaultTaint(p TaintPolicy) Option {
	return func(o *Options) { o.DefaultTaint = p }
}

// WithSubmitPolicy selects how concurrent submissions are handled.
func WithSubmitPolicy(p SubmitPolicy) Option {
	return func(o *Options) { o.Submits = p }
}

// WithValidator installs the schema adapter.
func WithValidator(v Validator) Option {
	return func(o *Options) { o.Validator = v }
}

// WithShape installs an explicit container-shape hint for error mapping.
// When absent, the hint is taken from the validator if it implements
// ShapeHinter.
func WithShape(s Shape) Option {
	return func(o *Options) { o.Shape = s }
}

// WithRegistry attaches the form to a page-scoped registry for duplicate-id
// detection.
func WithRegistry(r *Registry) Option {
	return func(o *Options) { o.Registry = r }
}

// WithTranslator fills empty issue messages from their codes before error
// mapping. Adapters that emit codes only stay display-ready this way.
func WithTranslator(tr i18n.Translator) Option {
	return func(o *Options) { o.Translator = tr }
}

// WithLogr sets the logger used for engine debug events.
var WithLogr = func(log logr.Logger) Option {
	return func(o *Options) { o.Log = log }
}
