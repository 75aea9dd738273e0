package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in generation the error occurred
type Phase string

const (
	PhaseConfig Phase = "config" // configuration lookup and decoding
	PhaseBuild  Phase = "build"  // region and section declaration
	PhaseEmit   Phase = "emit"   // script rendering
	PhaseWrite  Phase = "write"  // artifact commit
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch  Kind = "type_mismatch"
	KindInvalidData   Kind = "invalid_data"
	KindFieldMissing  Kind = "field_missing"
	KindNotFound      Kind = "not_found"
	KindUnknownMemory Kind = "unknown_memory"
	KindOverflow      Kind = "overflow"
	KindIO            Kind = "io"
)

// Error is the structured error type used throughout linkgen
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Want   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Want != "" {
		b.WriteString(": want ")
		b.WriteString(e.Want)
	}

	if e.Detail != "" {
		if e.Want != "" {
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

// Path sets the configuration path, one element per segment
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Want sets the expected value type
func (b *Builder) Want(t string) *Builder {
	b.err.Want = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// SplitPath turns a slash separated configuration path into path segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error for a configuration value
func TypeMismatch(path, want, got string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindTypeMismatch,
		Path:   SplitPath(path),
		Want:   want,
		Detail: "got " + got,
	}
}

// InvalidLiteral creates an error for a malformed numeric or boolean literal
func InvalidLiteral(path string, literal string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidData,
		Path:   SplitPath(path),
		Detail: fmt.Sprintf("malformed literal %q", literal),
		Value:  literal,
		Cause:  cause,
	}
}

// Overflow creates an overflow error
func Overflow(path string, value any, targetType string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindOverflow,
		Path:   SplitPath(path),
		Want:   targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   SplitPath(path),
		Detail: "required key not set",
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   SplitPath(path),
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, path, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Path:   SplitPath(path),
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// IO creates an artifact write error
func IO(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindIO,
		Detail: fmt.Sprintf("write %s", path),
		Cause:  cause,
	}
}

// ParseFailed creates a configuration parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// UnknownMemoryError is returned when a section names a memory that was
// never declared for the current platform.
type UnknownMemoryError struct {
	Section string
	Memory  string
	Known   []string
}

// NewUnknownMemoryError creates an error from the offending section token and
// the memory names known at the time of the lookup, in declaration order.
func NewUnknownMemoryError(section, memory string, known []string) *UnknownMemoryError {
	return &UnknownMemoryError{
		Section: section,
		Memory:  memory,
		Known:   append([]string(nil), known...),
	}
}

func (e *UnknownMemoryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: section %q refers to memory %q; ",
		PhaseBuild, KindUnknownMemory, e.Section, e.Memory)

	if len(e.Known) == 0 {
		b.WriteString("no memories are available")
		return b.String()
	}

	fmt.Fprintf(&b, "available memories (%d):", len(e.Known))
	for _, name := range e.Known {
		b.WriteString("\n  - ")
		b.WriteString(name)
	}

	return b.String()
}

// Is reports whether target matches this error type
func (e *UnknownMemoryError) Is(target error) bool {
	switch t := target.(type) {
	case *UnknownMemoryError:
		return true
	case *Error:
		return t.Phase == PhaseBuild && t.Kind == KindUnknownMemory
	}
	return false
}
