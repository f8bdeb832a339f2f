package formstate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/formstate/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeParseError    = "parse_error"
)

// Issue is a single normalized validation finding as produced by a schema
// adapter. An empty Path denotes a form-level (root) error.
type Issue struct {
	Path    Path
	Code    string // One of the codes listed above, or adapter-defined.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation findings that implements error.
// Validation failure is data, not control flow: the engine delivers Issues
// through the error tree and never returns them from Validate itself.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. too_short at tags[1]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// FillMessages returns a copy of iss where empty messages are resolved from
// their codes through the translator. Params values are stringified for the
// translator's metadata map.
func FillMessages(iss Issues, tr i18n.Translator) Issues {
	if tr == nil {
		return iss
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		if it.Message == "" && it.Code != "" {
			var data map[string]string
			if len(it.Params) > 0 {
				data = make(map[string]string, len(it.Params))
				for k, v := range it.Params {
					data[k] = fmt.Sprint(v)
				}
			}
			it.Message = tr.Message(it.Code, data)
		}
		out[i] = it
	}
	return out
}

// SchemaError reports a schema/shape inconsistency detected by the engine
// itself: a path with no resolvable type information, a union field decoded
// outside JSON mode, an array field missing item metadata. These indicate a
// misconfigured form, not a runtime data problem; they are always fatal to
// the current operation and are never converted into validation issues.
type SchemaError struct {
	Path   Path
	Reason string
}

func (e *SchemaError) Error() string {
	if len(e.Path) == 0 {
		return "formstate: schema error: " + e.Reason
	}
	return fmt.Sprintf("formstate: schema error at %s: %s", e.Path, e.Reason)
}

func schemaErrorf(p Path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: p, Reason: fmt.Sprintf(format, args...)}
}

// Usage errors: callers are expected to not reach these states; they are
// returned synchronously and are not intended for runtime recovery.
var (
	// ErrNoValidator indicates Validate was called on a form configured
	// without a schema adapter.
	ErrNoValidator = errors.New("formstate: no validator configured")

	// ErrSubmitInFlight indicates a submission was rejected by the
	// SubmitPrevent policy while another one is in flight.
	ErrSubmitInFlight = errors.New("formstate: submission already in flight")
)
