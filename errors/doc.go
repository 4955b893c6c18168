// Package errors provides structured error types for the script tool.
//
// Errors are categorized by Phase (which pipeline stage failed) and Kind
// (what went wrong). The Error type carries the script file, the byte
// address inside the script or the line inside a translation file, the
// offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTruncated).
//		File("ev0001.bin").
//		At(0x1a0).
//		Detail("jump table entry").
//		Build()
//
// Or use convenience constructors for the taxonomy:
//
//	err := errors.UnknownOpcode(0x100, 0xff)
//	err := errors.UnknownReferenceID(12, 0x10)
//
// Every error is fatal for the file being processed. All errors implement
// the standard error interface and support errors.Is/As; IsKind matches on
// Kind alone.
package errors
