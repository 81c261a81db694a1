package segment

import "errors"

// Sentinel errors for go-segment.
//
// Usage pattern: wrap sentinels with context at call site using fmt.Errorf:
//
//	return fmt.Errorf("max size %d: %w", n, ErrInvalidSize)
//
// This preserves errors.Is() compatibility while adding context.

// ErrInvalidSize indicates a non-positive chunk size budget.
// Wrap with the value: fmt.Errorf("max size %d: %w", n, ErrInvalidSize)
var ErrInvalidSize = errors.New("invalid max size")

// ErrInvalidOverlap indicates an overlap that is negative or not smaller
// than the chunk size budget.
// Wrap with both values: fmt.Errorf("overlap %d with max size %d: %w", o, n, ErrInvalidOverlap)
var ErrInvalidOverlap = errors.New("invalid overlap")

// ErrUnknownProfile indicates an invalid profile name was specified.
// Wrap with the name: fmt.Errorf("unknown profile %q: %w", name, ErrUnknownProfile)
var ErrUnknownProfile = errors.New("unknown profile")

// ErrUnknownEncoding indicates a tokenizer encoding outside the supported set.
// Wrap with the name: fmt.Errorf("unknown encoding %q: %w", name, ErrUnknownEncoding)
var ErrUnknownEncoding = errors.New("unknown encoding")
