package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a store lookup that matched no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by an insert that lost the uniqueness race
	// on a fingerprint. Callers should re-fetch the winner's record.
	ErrDuplicate = errors.New("record already exists for fingerprint")
)

// ParseError indicates the raw input could not be decoded as an email
// message. Per-attachment extraction failures are not parse errors; they
// degrade to empty attachment text.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse email: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ClassificationError indicates the external model was unreachable, returned
// no content, or returned content with no decodable classification. The
// parsed email is not persisted; the caller may re-submit.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classification failed: %s", e.Reason)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
