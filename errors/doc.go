// Package errors provides structured error types for linkgen.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending configuration path, the expected value type,
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfig, errors.KindTypeMismatch).
//		Path("cluster", "nb_pe").
//		Want("integer").
//		Detail("got string").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidLiteral("l2/size", "0xZZ", cause)
//	err := errors.NewUnknownMemoryError("foo@L3", "L3", []string{"L2", "L1"})
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
