package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates the domain or business configuration is
	// missing or malformed. Fatal to the operation that needed it.
	ErrConfiguration = errors.New("configuration invalid")

	// ErrDocument indicates a single source file is unreadable, empty or
	// oversized. Recorded and skipped, never fatal to a batch.
	ErrDocument = errors.New("document rejected")

	// ErrBuild indicates an embedding or vector-store failure during
	// index construction. Aborts the current build; the previous index
	// stays in place until a new one is ready.
	ErrBuild = errors.New("index build failed")

	// ErrValidation indicates a loaded index failed the synthetic query
	// check. Triggers an automatic rebuild, not surfaced to the caller.
	ErrValidation = errors.New("index validation failed")

	// ErrQueryTimeout indicates retrieval or synthesis exceeded its bound.
	// Surfaced as a user-facing error status with a retry hint.
	ErrQueryTimeout = errors.New("query timed out")

	// ErrBackendUnavailable indicates the embedding, vector or completion
	// service is unreachable. Retried only on the next independent call.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrIndexUnavailable indicates no valid index exists for a domain
	// and the single build attempt failed. Retrieval is unavailable.
	ErrIndexUnavailable = errors.New("index unavailable")
)
