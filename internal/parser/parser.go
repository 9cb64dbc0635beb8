// Package parser decodes raw .eml bytes into the structured form the rest
// of the pipeline consumes.
package parser

import (
	"bytes"
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
)

// EmlParser parses RFC 5322 / MIME messages with enmime and runs each
// attachment through best-effort text extraction.
type EmlParser struct {
	extractor *TextExtractor
	logger    *zap.Logger
}

// NewEmlParser creates a new .eml parser
func NewEmlParser(extractor *TextExtractor, logger *zap.Logger) *EmlParser {
	return &EmlParser{
		extractor: extractor,
		logger:    logger,
	}
}

// pendingEmail holds a decoded message with its attachment parts still
// unextracted.
type pendingEmail struct {
	parser *EmlParser
	email  *core.ParsedEmail
	parts  []*enmime.Part
}

func (pe *pendingEmail) Email() *core.ParsedEmail {
	return pe.email
}

// Complete runs attachment text extraction and returns the finished email.
// Extraction failures degrade to empty text and never fail the parse.
func (pe *pendingEmail) Complete() *core.ParsedEmail {
	pe.email.Attachments = make([]core.Attachment, 0, len(pe.parts))
	for _, att := range pe.parts {
		filename := att.FileName
		if filename == "" {
			filename = core.UnknownFile
		}
		contentType := att.ContentType
		if contentType == "" {
			contentType = core.UnknownType
		}
		pe.email.Attachments = append(pe.email.Attachments, core.Attachment{
			Filename:      filename,
			ContentType:   contentType,
			ExtractedText: pe.parser.extractor.ExtractText(filename, contentType, att.Content),
		})
	}

	pe.parser.logger.Debug("Email parsed",
		zap.String("subject", pe.email.Subject),
		zap.Int("attachments", len(pe.email.Attachments)))

	return pe.email
}

// Decode parses the message headers and body. Header fields that are absent
// are replaced with fixed placeholders so no downstream consumer observes
// an empty field. Attachment text extraction is the expensive step and is
// deferred to the returned PendingEmail so callers can fingerprint and
// consult caches first.
func (p *EmlParser) Decode(raw []byte) (core.PendingEmail, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, &core.ParseError{Err: err}
	}

	email := &core.ParsedEmail{
		Subject:     headerOr(env, "Subject", core.NoSubject),
		Sender:      addressesOr(env, "From", core.UnknownSender),
		Recipient:   addressesOr(env, "To", core.UnknownRecipient),
		Date:        p.parseDate(env),
		Body:        p.bodyText(env),
		Attachments: []core.Attachment{},
	}

	return &pendingEmail{parser: p, email: email, parts: env.Attachments}, nil
}

// Parse decodes and extracts in one step, for callers with no cache to
// consult.
func (p *EmlParser) Parse(raw []byte) (*core.ParsedEmail, error) {
	pending, err := p.Decode(raw)
	if err != nil {
		return nil, err
	}
	return pending.Complete(), nil
}

// bodyText prefers the plain-text part; when the message is HTML-only the
// readable text is pulled out of the HTML part instead.
func (p *EmlParser) bodyText(env *enmime.Envelope) string {
	if text := strings.TrimSpace(env.Text); text != "" {
		return env.Text
	}
	if env.HTML != "" {
		if text := p.extractor.htmlText([]byte(env.HTML)); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return core.NoBody
}

// parseDate normalizes the Date header to RFC 3339. An absent or
// unparseable header yields the placeholder; the raw header never leaks
// into the fingerprint.
func (p *EmlParser) parseDate(env *enmime.Envelope) string {
	header := env.GetHeader("Date")
	if header == "" {
		return core.UnknownDate
	}
	t, err := mail.ParseDate(header)
	if err != nil {
		p.logger.Debug("Unparseable Date header", zap.String("header", header), zap.Error(err))
		return core.UnknownDate
	}
	return t.UTC().Format(time.RFC3339)
}

func headerOr(env *enmime.Envelope, key, fallback string) string {
	if v := env.GetHeader(key); v != "" {
		return v
	}
	return fallback
}

// addressesOr joins all addresses from a header into a single "; "
// separated string.
func addressesOr(env *enmime.Envelope, key, fallback string) string {
	list, err := env.AddressList(key)
	if err != nil || len(list) == 0 {
		// Fall back to the raw header when the list does not parse as
		// addresses but is still present.
		if raw := env.GetHeader(key); raw != "" {
			return raw
		}
		return fallback
	}

	addrs := make([]string, 0, len(list))
	for _, a := range list {
		addrs = append(addrs, a.Address)
	}
	return strings.Join(addrs, "; ")
}
