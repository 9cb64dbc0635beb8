package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// TriageService runs the full pipeline for one submission: parse the raw
// message, fingerprint it, check the short-term cache and the persistent
// store, classify through the external model, and persist the result.
type TriageService struct {
	parser       EmailParser
	llmClient    LLMClient
	cache        ParsedEmailCache
	store        EmailRepository
	logger       *zap.Logger
	cacheEnabled bool
	llmTimeout   time.Duration
}

// NewTriageService creates a new triage service
func NewTriageService(
	parser EmailParser,
	llmClient LLMClient,
	cache ParsedEmailCache,
	store EmailRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	llmTimeout time.Duration,
) *TriageService {
	return &TriageService{
		parser:       parser,
		llmClient:    llmClient,
		cache:        cache,
		store:        store,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		llmTimeout:   llmTimeout,
	}
}

// Parse decodes raw bytes into a ParsedEmail, consulting the short-term
// cache so a rapid re-upload of an identical file skips the attachment
// extraction work. The fingerprint covers only the decoded header and body
// fields, so the cache is checked before extraction runs: a hit pays for
// the cheap decode and nothing else.
func (s *TriageService) Parse(raw []byte) (*ParsedEmail, error) {
	pending, err := s.parser.Decode(raw)
	if err != nil {
		return nil, err
	}

	if !s.cacheEnabled {
		return pending.Complete(), nil
	}

	fp := EmailFingerprint(pending.Email())
	if cached, ok := s.cache.Get(fp); ok {
		s.logger.Debug("Parsed email served from cache", zap.String("fingerprint", fp))
		return cached, nil
	}

	email := pending.Complete()
	s.cache.Set(fp, email)
	return email, nil
}

// ProcessEmail runs the pipeline end to end. When the fingerprint has been
// seen before, the stored record is returned with the duplicate flag set and
// the model is not invoked. A classification failure leaves nothing
// persisted; the submission can be re-derived from the original file.
func (s *TriageService) ProcessEmail(ctx context.Context, raw []byte, taxonomy Taxonomy) (*TriageOutcome, error) {
	email, err := s.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.ProcessParsed(ctx, email, taxonomy)
}

// ProcessParsed classifies and persists an already-parsed email.
func (s *TriageService) ProcessParsed(ctx context.Context, email *ParsedEmail, taxonomy Taxonomy) (*TriageOutcome, error) {
	fp := EmailFingerprint(email)

	// The store lookup is unconditional: the model call is the expensive
	// step and is never repeated for content that is already classified.
	if existing, err := s.store.FindByFingerprint(ctx, fp); err == nil {
		s.logger.Info("Duplicate email detected",
			zap.String("fingerprint", fp),
			zap.Time("first_seen", existing.CreatedAt))
		return &TriageOutcome{Record: existing, Duplicate: true}, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if len(taxonomy) == 0 {
		taxonomy = DefaultTaxonomy()
	}

	llmCtx := ctx
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		llmCtx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}

	result, err := s.llmClient.ClassifyEmail(llmCtx, email, taxonomy)
	if err != nil {
		var cerr *ClassificationError
		if errors.As(err, &cerr) {
			return nil, err
		}
		return nil, &ClassificationError{Reason: "model call failed", Err: err}
	}
	if result.Empty() {
		return nil, &ClassificationError{Reason: "model returned no usable classification"}
	}

	record := &ClassificationRecord{
		Fingerprint:     fp,
		Subject:         email.Subject,
		Sender:          email.Sender,
		Recipient:       email.Recipient,
		Date:            email.Date,
		Body:            email.Body,
		Attachments:     email.Attachments,
		ExtractedFields: result.ExtractedFields,
		MLResults:       result,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, record); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// A concurrent submission of the same content won the insert
			// race. Return the winner's record as a duplicate hit.
			winner, ferr := s.store.FindByFingerprint(ctx, fp)
			if ferr != nil {
				return nil, ferr
			}
			s.logger.Info("Lost insert race, returning existing record",
				zap.String("fingerprint", fp))
			return &TriageOutcome{Record: winner, Duplicate: true}, nil
		}
		return nil, err
	}

	s.logger.Info("Email classified and stored",
		zap.String("fingerprint", fp),
		zap.String("primary_intent", result.PrimaryIntent),
		zap.Int("request_types", len(result.RequestTypes)))

	return &TriageOutcome{Record: record, Duplicate: false}, nil
}
