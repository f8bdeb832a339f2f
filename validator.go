package formstate

import "context"

// Result is the normalized outcome of a schema adapter run.
type Result struct {
	Valid bool
	// Data carries the (possibly transformed) data on success.
	Data *Node
	// Issues carries the findings when Valid is false.
	Issues Issues
}

// Validator is the schema adapter contract. Adapter internals are a
// collaborator concern; the engine consumes only the normalized Result.
// Validation findings travel inside Result, never through the error return,
// which is reserved for schema misconfiguration (SchemaError) and adapter
// failures.
type Validator interface {
	Validate(ctx context.Context, data *Node) (Result, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, data *Node) (Result, error)

func (f ValidatorFunc) Validate(ctx context.Context, data *Node) (Result, error) {
	return f(ctx, data)
}

// ShapeHinter is an optional Validator capability: adapters that know which
// paths are containers expose the hint MapErrors uses to distinguish
// object-level from leaf errors.
type ShapeHinter interface {
	Shape() Shape
}
