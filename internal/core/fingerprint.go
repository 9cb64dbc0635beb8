package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives the dedup identity of an email from its subject, body
// and date. The three fields are concatenated without a delimiter and hashed
// with SHA-256; no case or whitespace normalization is applied, so callers
// must pass exactly the values stored on the ParsedEmail (sentinels
// included). Sender and attachments deliberately do not participate: two
// emails with the same subject, body and date are the same email.
func Fingerprint(subject, body, date string) string {
	sum := sha256.Sum256([]byte(subject + body + date))
	return hex.EncodeToString(sum[:])
}

// EmailFingerprint computes the fingerprint from a ParsedEmail's stored
// fields.
func EmailFingerprint(email *ParsedEmail) string {
	return Fingerprint(email.Subject, email.Body, email.Date)
}
