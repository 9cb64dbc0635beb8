// Package smtpgw ingests email over SMTP and feeds each received message
// through the triage pipeline with the default taxonomy. Messages are
// always accepted; classification failures are logged, not bounced.
package smtpgw

import (
	"context"
	"io"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
)

// Gateway is an SMTP ingestion endpoint
type Gateway struct {
	service *core.TriageService
	logger  *zap.Logger
	cfg     config.SMTPConfig
	server  *smtp.Server
}

// NewGateway creates a new SMTP gateway
func NewGateway(service *core.TriageService, logger *zap.Logger, cfg config.SMTPConfig) *Gateway {
	return &Gateway{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start starts the SMTP listener
func (g *Gateway) Start() error {
	g.server = smtp.NewServer(&smtpBackend{gateway: g})

	g.server.Addr = g.cfg.ListenAddress
	g.server.Domain = g.cfg.Domain
	g.server.ReadTimeout = 30 * time.Second
	g.server.WriteTimeout = 30 * time.Second
	g.server.MaxMessageBytes = g.cfg.MaxMessageBytes
	g.server.MaxRecipients = 50
	g.server.AllowInsecureAuth = true

	g.logger.Info("SMTP gateway starting", zap.String("address", g.cfg.ListenAddress))

	go func() {
		if err := g.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				g.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (g *Gateway) Stop() error {
	if g.server != nil {
		return g.server.Close()
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	gateway *Gateway
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{gateway: b.gateway}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	gateway *Gateway
	sender  string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}

// AuthPlain handles PLAIN authentication (not needed for ingestion)
func (s *smtpSession) AuthPlain(_, _ string) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt accepts any recipient; triage does not route
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	return nil
}

// Data receives the message body and runs the triage pipeline on it
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.gateway.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	outcome, err := s.gateway.service.ProcessEmail(ctx, raw, nil)
	if err != nil {
		// Accept the message anyway; the sender cannot fix a model outage.
		s.gateway.logger.Error("Failed to triage received email",
			zap.Error(err),
			zap.String("sender", s.sender))
		return nil
	}

	s.gateway.logger.Info("Received email triaged",
		zap.String("sender", s.sender),
		zap.String("fingerprint", outcome.Record.Fingerprint),
		zap.Bool("duplicate", outcome.Duplicate))

	return nil
}
