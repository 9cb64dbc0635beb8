package core

import (
	"time"
)

// Placeholder values substituted for header fields that are absent from the
// source message. Downstream code never sees an empty field.
const (
	NoSubject        = "No Subject"
	UnknownSender    = "Unknown Sender"
	UnknownRecipient = "Unknown Recipient"
	UnknownDate      = "Unknown Date"
	NoBody           = "No Body"
	UnknownFile      = "Unknown File"
	UnknownType      = "Unknown Type"
)

// Attachment is a single decoded attachment with its best-effort extracted
// text. ExtractedText is empty when extraction failed or the format is not
// supported.
type Attachment struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"contentType"`
	ExtractedText string `json:"extractedText"`
}

// ParsedEmail is the structured form of a raw .eml message. It lives for a
// single request: it is either folded into a ClassificationRecord or dropped.
type ParsedEmail struct {
	Subject     string       `json:"subject"`
	Sender      string       `json:"sender"`
	Recipient   string       `json:"recipient"`
	Date        string       `json:"date"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments"`
}

// RequestTypeScore is one request-type assignment from the model. An email
// can carry several of these, each independently scored.
type RequestTypeScore struct {
	RequestType        string     `json:"request_type"`
	ConfidenceScore    Confidence `json:"confidence_score"`
	SubRequestType     string     `json:"sub_request_type,omitempty"`
	SubConfidenceScore Confidence `json:"sub_confidence_score,omitempty"`
}

// ClassificationResult is the structured output extracted from the model's
// response.
type ClassificationResult struct {
	PrimaryIntent   string             `json:"primary_intent"`
	ExtractedFields map[string]string  `json:"extracted_fields"`
	Summary         string             `json:"summary"`
	RequestTypes    []RequestTypeScore `json:"request_types"`
}

// Empty reports whether extraction produced nothing usable. An empty result
// means the model's reply had no decodable payload and must be treated as a
// classification failure, never persisted.
func (r *ClassificationResult) Empty() bool {
	return r == nil || (r.PrimaryIntent == "" && len(r.RequestTypes) == 0)
}

// ClassificationRecord is the persistent unit: parsed content plus the
// model's classification, keyed uniquely by fingerprint. Records are written
// once and never updated or deleted.
type ClassificationRecord struct {
	Fingerprint     string                `json:"fingerprint"`
	Subject         string                `json:"subject"`
	Sender          string                `json:"sender"`
	Recipient       string                `json:"recipient"`
	Date            string                `json:"date"`
	Body            string                `json:"body"`
	Attachments     []Attachment          `json:"attachments"`
	ExtractedFields map[string]string     `json:"extractedFields"`
	MLResults       *ClassificationResult `json:"mlResults"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// TriageOutcome is what the pipeline hands back to transports: the stored
// record, and whether it came from an earlier submission of the same content.
type TriageOutcome struct {
	Record    *ClassificationRecord `json:"email"`
	Duplicate bool                  `json:"duplicate"`
}
