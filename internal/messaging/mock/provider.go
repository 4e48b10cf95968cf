package mock

import (
	"context"

	"go.uber.org/zap"

	"github.com/acme/intake-call-retry/internal/messaging"
	"github.com/acme/intake-call-retry/pkg/logger"
)

// Provider logs outbound SMS instead of sending, for development
// environments.
type Provider struct {
	logger *logger.Logger
}

// NewProvider constructs a mock SMS provider.
func NewProvider(lg *logger.Logger) *Provider {
	return &Provider{logger: lg}
}

// SendSMS logs the message.
func (p *Provider) SendSMS(_ context.Context, msg messaging.Message) error {
	p.logger.Info("mock sms sent", zap.String("phone", msg.PhoneNumber), zap.String("body", msg.Body))
	return nil
}
