package core

import (
	"context"
)

// PendingEmail is a decoded message whose attachment text has not been
// extracted yet. Email exposes the header and body fields, which is all the
// fingerprint needs; Complete runs the expensive attachment extraction and
// returns the finished ParsedEmail.
type PendingEmail interface {
	Email() *ParsedEmail
	Complete() *ParsedEmail
}

// EmailParser decodes raw .eml bytes into a ParsedEmail
type EmailParser interface {
	// Decode parses the message headers and body, deferring attachment
	// text extraction to the returned PendingEmail. Returns a *ParseError
	// when the bytes are not a decodable email message.
	Decode(raw []byte) (PendingEmail, error)
}

// LLMClient defines the interface for the external classification service
type LLMClient interface {
	// ClassifyEmail submits the parsed email and taxonomy to the model and
	// returns the extracted classification. A single attempt, no retries.
	ClassifyEmail(ctx context.Context, email *ParsedEmail, taxonomy Taxonomy) (*ClassificationResult, error)
}

// ParsedEmailCache is the short-term dedup layer: it protects the
// parse/extract step from rapid repeated uploads of the same file. Entries
// expire and the cache is bounded; implementations are safe for concurrent
// use.
type ParsedEmailCache interface {
	Get(fingerprint string) (*ParsedEmail, bool)
	Set(fingerprint string, email *ParsedEmail)
}

// EmailRepository is the persistent record store. Fingerprint uniqueness is
// enforced by the store itself, not by callers.
type EmailRepository interface {
	// FindByFingerprint returns the stored record, or ErrNotFound.
	FindByFingerprint(ctx context.Context, fingerprint string) (*ClassificationRecord, error)

	// Insert stores a new record. Returns ErrDuplicate when a record with
	// the same fingerprint already exists; the store never overwrites.
	Insert(ctx context.Context, record *ClassificationRecord) error

	// List returns stored records, newest first.
	List(ctx context.Context, limit int) ([]*ClassificationRecord, error)
}
