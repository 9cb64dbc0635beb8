package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/adapters/httpserver"
	"github.com/mikey/email-triage/internal/adapters/smtpgw"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/ports"
)

// GatewayFactory creates the ingestion transport
type GatewayFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory(cfg *config.Config, logger *zap.Logger) *GatewayFactory {
	return &GatewayFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGateway creates a gateway based on the configuration
func (f *GatewayFactory) CreateGateway(service *core.TriageService, store core.EmailRepository) (ports.Gateway, error) {
	switch f.cfg.GetString("gateway.type") {
	case "http":
		return httpserver.NewServer(service, store, f.logger, f.cfg.GetServer(), f.cfg.GetStore().ListLimit), nil
	case "smtp":
		return smtpgw.NewGateway(service, f.logger, f.cfg.GetSMTP()), nil
	default:
		return nil, fmt.Errorf("unsupported gateway type: %s", f.cfg.GetString("gateway.type"))
	}
}
