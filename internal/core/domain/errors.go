package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required setting or service is missing.
	ErrNotConfigured = errors.New("not configured")

	// Message Errors.

	// ErrMalformedMessage indicates the chat platform delivered a message
	// that cannot be mapped. Such messages are skipped, never indexed.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrTimestampOutOfRange indicates a message timestamp is missing or
	// outside the range the index timestamp type can represent.
	ErrTimestampOutOfRange = fmt.Errorf("%w: timestamp out of range", ErrMalformedMessage)

	// Schema Errors.

	// ErrDuplicateField indicates a schema declares the same field name twice.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrUnknownField indicates a field handle or name is not part of the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrFieldType indicates a value does not match the field's declared type.
	ErrFieldType = errors.New("field type mismatch")

	// ErrFieldCardinality indicates a second value was written to a single-valued field.
	ErrFieldCardinality = errors.New("single-valued field already set")

	// ErrFieldNotIndexed indicates a query filters on a field that is not indexed.
	ErrFieldNotIndexed = errors.New("field is not indexed")

	// Index Errors.

	// ErrSchemaMismatch indicates the schema persisted with an index differs
	// from the schema the process built. This is fatal at startup.
	ErrSchemaMismatch = errors.New("index schema mismatch")

	// ErrIndexClosed indicates the index has been closed.
	ErrIndexClosed = errors.New("index closed")
)
