package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Shape errors: malformed measurement tables are rejected before any
	// computation starts.
	ErrMalformedTable       = errors.New("malformed measurement table")
	ErrDuplicateBiomolecule = fmt.Errorf("%w: duplicate biomolecule identifier", ErrMalformedTable)
	ErrMissingReplicateKey  = fmt.Errorf("%w: sample missing replicate-group key", ErrMalformedTable)
	ErrEmptyReplicateGroup  = fmt.Errorf("%w: replicate group has no samples", ErrMalformedTable)
	ErrEmptyTable           = fmt.Errorf("%w: no biomolecules or no samples", ErrMalformedTable)

	// Bootstrap errors
	ErrUnsupportedMethod = errors.New("unsupported correlation method")
	ErrChunkFailed       = errors.New("bootstrap chunk failed")

	// Graph errors: both overlap conditions are distinct from a valid
	// empty result.
	ErrInsufficientOverlap = errors.New("insufficient layer overlap")
	ErrTooFewLayers        = fmt.Errorf("%w: fewer than two layer graphs", ErrInsufficientOverlap)
	ErrNoOverlap           = fmt.Errorf("%w: empty node intersection", ErrInsufficientOverlap)
	ErrEmptyGraph          = errors.New("graph has no nodes")
)

// Error constructors with context

func NewDuplicateBiomoleculeError(id string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateBiomolecule, id)
}

func NewMissingReplicateKeyError(sampleID, level string) error {
	return fmt.Errorf("%w: sample %q has no %q label", ErrMissingReplicateKey, sampleID, level)
}

func NewEmptyReplicateGroupError(key string) error {
	return fmt.Errorf("%w: key %q", ErrEmptyReplicateGroup, key)
}

func NewChunkError(chunk, first, last int, err error) error {
	return fmt.Errorf("%w: chunk %d (pairs %d-%d): %w", ErrChunkFailed, chunk, first, last, err)
}

// Error checking helpers

func IsShapeError(err error) bool {
	return errors.Is(err, ErrMalformedTable)
}

func IsInsufficientOverlap(err error) bool {
	return errors.Is(err, ErrInsufficientOverlap)
}
