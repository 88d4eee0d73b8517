package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/afriart/gallery-service/internal/events"
)

// AuditService records auth lifecycle events through the structured log so
// registrations, logins and 2FA activity leave a trail.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to every auth lifecycle event.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventPrincipalRegistered, a.record)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.record)
	a.dispatcher.Subscribe(events.EventCodeRequested, a.record)
	a.dispatcher.Subscribe(events.EventCodeVerified, a.record)
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info("auth event",
		zap.String("type", string(event.Type)),
		zap.String("role", string(event.Role)),
		zap.String("subject", event.Subject),
		zap.String("email", event.Email),
		zap.Time("at", event.At))
	return nil
}
