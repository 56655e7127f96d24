// Package errors provides structured error types for reprcheck.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the field path, the shape name, the compared values and a
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("outer", "inner", "b").
//		GoType("string").
//		Shape("u64").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Mismatch("MemoryLayout<Outer>.size", 26, 20)
//	err := errors.OutOfBounds(errors.PhaseMemory, path, 40, 32)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
