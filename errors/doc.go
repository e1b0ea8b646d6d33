// Package errors provides the structured error type used for configuration
// and API misuse.
//
// Flattening itself has no failure modes; end-of-sequence is a normal result.
// Errors produced by wrapped iterators pass through pipelines unchanged, so
// callers match them with the standard errors.Is and errors.As.
package errors
