package auditprovider

import (
	"activos/providers"
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DBAuditProvider appends rows to audit_log. A failed write never fails
// the operation being audited; it is logged and dropped.
type DBAuditProvider struct {
	db     *sqlx.DB
	logger providers.ZapLoggerProvider
}

func NewAuditProvider(db *sqlx.DB, logger providers.ZapLoggerProvider) providers.AuditProvider {
	return &DBAuditProvider{db: db, logger: logger}
}

func (a *DBAuditProvider) Record(ctx context.Context, actorID uuid.UUID, action, entity, entityID string) {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO audit_log (user_id, action, entity, entity_id)
		VALUES ($1, $2, $3, $4)
	`, actorID, action, entity, entityID)
	if err != nil {
		a.logger.GetLogger().Warn("failed to write audit record",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}
