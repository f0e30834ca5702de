package auditprovider

import (
	"context"
	"errors"
	"testing"

	"activos/providers/loggerprovider"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	audit := NewAuditProvider(sqlx.NewDb(db, "postgres"), loggerprovider.NewLogProvider())
	actorID := uuid.New()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(actorID, "retired asset", "asset", "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	audit.Record(context.Background(), actorID, "retired asset", "asset", "a-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSwallowsWriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	audit := NewAuditProvider(sqlx.NewDb(db, "postgres"), loggerprovider.NewLogProvider())
	actorID := uuid.New()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(actorID, "created category", "category", "c-1").
		WillReturnError(errors.New("db down"))

	// must not panic or surface the error
	audit.Record(context.Background(), actorID, "created category", "category", "c-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
