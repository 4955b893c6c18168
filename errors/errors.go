package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // reading a script file
	PhaseDecode   Phase = "decode"   // walking the code region
	PhaseValidate Phase = "validate" // pool scan and reference resolution
	PhaseExport   Phase = "export"   // writing a translation file
	PhaseImport   Phase = "import"   // reading a translation file
	PhaseRebuild  Phase = "rebuild"  // re-encoding the string pool
	PhaseSave     Phase = "save"     // writing a script file
	PhaseConfig   Phase = "config"   // configuration and codec selection
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedSubtype  Kind = "unsupported_subtype"
	KindUnknownOpcode       Kind = "unknown_opcode"
	KindUnknownValueSource  Kind = "unknown_value_source"
	KindTruncated           Kind = "truncated"
	KindDuplicateSlot       Kind = "duplicate_slot"
	KindReferenceOutOfRange Kind = "reference_out_of_range"
	KindMissingReference    Kind = "missing_reference"
	KindNoReferences        Kind = "no_references"
	KindNoMessages          Kind = "no_messages"
	KindBadLineFormat       Kind = "bad_line_format"
	KindUnknownReferenceID  Kind = "unknown_reference_id"
	KindUnencodable         Kind = "unencodable"
	KindUnsupportedCodec    Kind = "unsupported_codec"
	KindInvalidInput        Kind = "invalid_input"
	KindIO                  Kind = "io"
)

// Error is the structured error type used throughout the tool
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	File       string
	Detail     string
	Address    int // byte offset inside the script, valid when HasAddress
	Line       int // 1-based line in a translation file, 0 when unset
	HasAddress bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}

	if e.HasAddress {
		fmt.Fprintf(&b, " at 0x%08X", e.Address)
	}

	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}

	if e.Detail != "" {
		b.WriteString(": ")
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

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err's chain holds an *Error of the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// WithFile stamps the file name onto err if it is an *Error without one.
// Other errors are wrapped as KindIO in the given phase.
func WithFile(phase Phase, err error, file string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		if e.File == "" {
			e.File = file
		}
		return err
	}
	return &Error{Phase: phase, Kind: KindIO, File: file, Cause: err}
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

// File sets the script or translation file name
func (b *Builder) File(name string) *Builder {
	b.err.File = name
	return b
}

// At sets the byte address inside the script
func (b *Builder) At(addr int) *Builder {
	b.err.Address = addr
	b.err.HasAddress = true
	return b
}

// Line sets the translation file line number
func (b *Builder) Line(n int) *Builder {
	b.err.Line = n
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

// Convenience constructors for the error taxonomy

// UnsupportedSubtype rejects a script variant the decoder does not handle.
func UnsupportedSubtype(file, what string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindUnsupportedSubtype,
		File:   file,
		Detail: fmt.Sprintf("%s not supported", what),
	}
}

// UnknownOpcode creates an error for an opcode absent from the schema table
func UnknownOpcode(addr int, op uint32) *Error {
	return &Error{
		Phase:      PhaseDecode,
		Kind:       KindUnknownOpcode,
		Address:    addr,
		HasAddress: true,
		Value:      op,
		Detail:     fmt.Sprintf("unknown opcode 0x%02X", op),
	}
}

// UnknownValueSource creates an error for a value operand with a bad selector
func UnknownValueSource(addr int, source uint32) *Error {
	return &Error{
		Phase:      PhaseDecode,
		Kind:       KindUnknownValueSource,
		Address:    addr,
		HasAddress: true,
		Value:      source,
		Detail:     fmt.Sprintf("unknown value source %d", source),
	}
}

// Truncated creates an error for input that ends inside a field
func Truncated(phase Phase, addr int, what string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTruncated,
		Address:    addr,
		HasAddress: true,
		Detail:     what,
	}
}

// DuplicateSlot creates an error for a slot registered twice
func DuplicateSlot(slot uint32) *Error {
	return &Error{
		Phase:      PhaseDecode,
		Kind:       KindDuplicateSlot,
		Address:    int(slot),
		HasAddress: true,
		Value:      slot,
		Detail:     "string reference registered twice",
	}
}

// ReferenceOutOfRange creates an error for a slot pointing outside the pool
func ReferenceOutOfRange(slot, target uint32, poolStart, length int) *Error {
	return &Error{
		Phase:      PhaseValidate,
		Kind:       KindReferenceOutOfRange,
		Address:    int(slot),
		HasAddress: true,
		Value:      target,
		Detail:     fmt.Sprintf("string offset 0x%08X out of range [0x%08X, 0x%08X)", target, poolStart, length),
	}
}

// MissingReference creates an error for a pool string no slot points at
func MissingReference(text string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindMissingReference,
		Value:  text,
		Detail: fmt.Sprintf("pool string %q is not reachable from any reference", text),
	}
}

// NoReferences creates an error for a script without string references
func NoReferences() *Error {
	return &Error{
		Phase:  PhaseExport,
		Kind:   KindNoReferences,
		Detail: "no string to export",
	}
}

// NoMessages creates an error for a script without message records
func NoMessages() *Error {
	return &Error{
		Phase:  PhaseExport,
		Kind:   KindNoMessages,
		Detail: "no message to export",
	}
}

// BadLineFormat creates an error for a malformed translation line
func BadLineFormat(line int, text string) *Error {
	return &Error{
		Phase:  PhaseImport,
		Kind:   KindBadLineFormat,
		Line:   line,
		Value:  text,
		Detail: "bad format",
	}
}

// UnknownReferenceID creates an error for a translation id with no slot
func UnknownReferenceID(line int, id uint32) *Error {
	return &Error{
		Phase:  PhaseImport,
		Kind:   KindUnknownReferenceID,
		Line:   line,
		Value:  id,
		Detail: fmt.Sprintf("string id %08X is not in the script", id),
	}
}

// Unencodable creates an error for text the output codec cannot represent
func Unencodable(slot uint32, codec string, cause error) *Error {
	return &Error{
		Phase:      PhaseRebuild,
		Kind:       KindUnencodable,
		Address:    int(slot),
		HasAddress: true,
		Detail:     fmt.Sprintf("text cannot be encoded as %s", codec),
		Cause:      cause,
	}
}

// UnsupportedCodec creates an error for an unknown codec name
func UnsupportedCodec(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindUnsupportedCodec,
		Value:  name,
		Detail: fmt.Sprintf("unknown text encoding %q", name),
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// IO wraps a filesystem failure
func IO(phase Phase, file string, cause error) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindIO,
		File:  file,
		Cause: cause,
	}
}
