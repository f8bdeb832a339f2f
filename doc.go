// Package formstate provides:
//
// - A tagged tree model (Node) with path addressing for form data, errors and taint
// - Diffing (ComparePaths) and tainted-state tracking with a self-healing clean baseline
// - An error tree with object-level "_errors" semantics, flattening and visibility-preserving merge
// - A validation event policy deciding per event whether errors display, defer or stay suppressed
// - A Form container orchestrating updates, validation, submission and snapshots
//
// Design policy:
// - Keep public APIs in the root package; transit serialization lives under codec/, message dictionaries under i18n/.
// - Schema adapters, transport and rendering are collaborators behind small interfaces.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	form := formstate.New(initial, formstate.WithValidator(v))
//	form.Set(formstate.SplitPath("name"), formstate.Scalar("Al"))
//	err := form.Validate(ctx, formstate.ChangeEvent{
//		Type:  formstate.EventBlur,
//		Paths: []formstate.Path{formstate.SplitPath("name")},
//	})
//
//	snap := form.Capture()
//	chunks, err := snap.MarshalChunks(codec.Transit{})
package formstate
