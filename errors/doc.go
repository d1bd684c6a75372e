// Package errors provides structured error types for the proplist module.
//
// Errors are categorized by Phase (which operation failed) and Kind (error
// category). Every kind maps onto a small negative result code so callers
// that work with raw indices can keep the "negative means failure" contract:
//
//	idx, err := list.DefineProperty(0, "host", false)
//	if err != nil {
//		return errors.Code(err) // e.g. -5 for a full list
//	}
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDefine, errors.KindListFull).
//		Value(max).
//		Detail("list holds %d properties", max).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidIndex(errors.PhaseLookup, 12, 8)
//	err := errors.NoMemory(errors.PhaseName, 32, cause)
//
// Phase-less errors created with Sentinel match any error of the same kind
// under errors.Is.
package errors
