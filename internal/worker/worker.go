package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/afriart/gallery-service/internal/service"
	"github.com/afriart/gallery-service/internal/twofactor"
)

// StartAudit registers audit handlers.
func StartAudit(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}

// StartCodeSweeper periodically drops expired one-time codes until the
// context is cancelled.
func StartCodeSweeper(ctx context.Context, store twofactor.CodeStore, interval time.Duration, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if dropped := store.SweepExpired(ctx); dropped > 0 {
					logger.Debug("swept expired verification codes", zap.Int("dropped", dropped))
				}
			}
		}
	}()
}
