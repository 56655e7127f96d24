package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout Phase = "layout" // layout computation
	PhaseEncode Phase = "encode" // Go value to memory
	PhaseDecode Phase = "decode" // memory to Go value
	PhaseMemory Phase = "memory" // linear memory access
	PhaseVerify Phase = "verify" // layout assertions
	PhaseNative Phase = "native" // native struct introspection
)

// Kind categorizes the error
type Kind string

const (
	KindMismatch      Kind = "mismatch"
	KindTypeMismatch  Kind = "type_mismatch"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindOverflow      Kind = "overflow"
	KindUnsupported   Kind = "unsupported"
	KindFieldMissing  Kind = "field_missing"
	KindInvalidInput  Kind = "invalid_input"
	KindAllocation    Kind = "allocation"
	KindInstantiation Kind = "instantiation"
	KindNilPointer    Kind = "nil_pointer"
)

// Error is the structured error type used throughout reprcheck
type Error struct {
	Actual   any
	Expected any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	Shape    string
	Label    string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Kind == KindMismatch {
		return e.mismatchString()
	}

	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.Shape != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.Shape != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", shape ")
			b.WriteString(e.Shape)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("shape ")
			b.WriteString(e.Shape)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Shape != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// mismatchString renders "<label> != …; actual: <a>, expected: <e>".
func (e *Error) mismatchString() string {
	var b strings.Builder
	b.WriteString(e.Label)
	b.WriteString(" != …; actual: ")
	b.WriteString(FormatValue(e.Actual))
	b.WriteString(", expected: ")
	b.WriteString(FormatValue(e.Expected))
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Shape sets the shape or scalar type name
func (b *Builder) Shape(s string) *Builder {
	b.err.Shape = s
	return b
}

// Label sets the check label
func (b *Builder) Label(l string) *Builder {
	b.err.Label = l
	return b
}

// Values sets the compared values
func (b *Builder) Values(actual, expected any) *Builder {
	b.err.Actual = actual
	b.err.Expected = expected
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Mismatch creates a layout assertion mismatch identified by label
func Mismatch(label string, actual, expected any) *Error {
	return &Error{
		Phase:    PhaseVerify,
		Kind:     KindMismatch,
		Label:    label,
		Actual:   actual,
		Expected: expected,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, shape string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Shape:  shape,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOutOfBounds,
		Path:     path,
		Detail:   fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Actual:   index,
		Expected: length,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Shape:  target,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Actual: value,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindInvalidInput).Detail(detail, args...).Build()
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// FormatValue renders byte slices as hex lists and everything else with %v.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case []byte:
		parts := make([]string, len(val))
		for i, b := range val {
			parts[i] = fmt.Sprintf("0x%02x", b)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}
