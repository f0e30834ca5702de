package maintenanceservice

import (
	"context"
	"testing"
	"time"

	"activos/models"
	"activos/providers/loggerprovider"
	assetservice "activos/services/asset"
	workorderservice "activos/services/workorder"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockScheduler(t *testing.T, now time.Time) (*Scheduler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	sched := NewScheduler(
		NewPlanRepository(sqlxDB),
		assetservice.NewAssetRepository(sqlxDB),
		workorderservice.NewWorkOrderRepository(sqlxDB),
		loggerprovider.NewLogProvider(),
		time.Hour,
	)
	sched.now = func() time.Time { return now }
	return sched, mock
}

func planRows(id, categoryID uuid.UUID, title, frequency string, interval int, nextRun time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "task", "frequency", "recur_interval", "next_run_date", "category_id", "created_at"}).
		AddRow(id, title, nil, frequency, interval, nextRun, categoryID, time.Now())
}

func TestRunOnceFiresDuePlan(t *testing.T) {
	planID := uuid.New()
	categoryID := uuid.New()
	availableAsset := uuid.New()
	assignedAsset := uuid.New()
	nextRun := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	sched, mock := newMockScheduler(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC))

	mock.ExpectQuery(`SELECT id, title, task, frequency, recur_interval, next_run_date, category_id, created_at`).
		WithArgs(today).
		WillReturnRows(planRows(planID, categoryID, "Quarterly printer service", "monthly", 2, nextRun))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, status, version FROM assets`).
		WithArgs(categoryID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "version"}).
			AddRow(availableAsset, "available", 1).
			AddRow(assignedAsset, "assigned", 3))
	mock.ExpectQuery(`INSERT INTO work_orders`).
		WithArgs(availableAsset, "Preventive maintenance: Quarterly printer service", models.SystemUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(`UPDATE assets SET status = \$1, version = version \+ 1`).
		WithArgs(models.AssetInMaintenance, availableAsset, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO work_orders`).
		WithArgs(assignedAsset, "Preventive maintenance: Quarterly printer service", models.SystemUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(`UPDATE maintenance_plans SET next_run_date = \$1`).
		WithArgs(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), planID, nextRun).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sched.RunOnce(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunOnceContinuesPastFailedPlan(t *testing.T) {
	brokenPlan := uuid.New()
	healthyPlan := uuid.New()
	categoryA := uuid.New()
	categoryB := uuid.New()
	nextRun := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sched, mock := newMockScheduler(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	rows := planRows(brokenPlan, categoryA, "Broken", "daily", 1, nextRun).
		AddRow(healthyPlan, "Healthy", nil, "weekly", 1, nextRun, categoryB, time.Now())
	mock.ExpectQuery(`SELECT id, title, task, frequency, recur_interval, next_run_date, category_id, created_at`).
		WithArgs(today).
		WillReturnRows(rows)

	// first plan loses the date-advance race and rolls back
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, status, version FROM assets`).
		WithArgs(categoryA).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "version"}))
	mock.ExpectExec(`UPDATE maintenance_plans SET next_run_date = \$1`).
		WithArgs(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), brokenPlan, nextRun).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// second plan still fires
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, status, version FROM assets`).
		WithArgs(categoryB).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "version"}))
	mock.ExpectExec(`UPDATE maintenance_plans SET next_run_date = \$1`).
		WithArgs(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), healthyPlan, nextRun).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sched.RunOnce(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextRunDate(t *testing.T) {
	tests := []struct {
		name      string
		current   time.Time
		frequency models.PlanFrequency
		interval  int
		expected  time.Time
	}{
		{
			name:      "daily",
			current:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			frequency: models.FrequencyDaily,
			interval:  1,
			expected:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "every third day",
			current:   time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
			frequency: models.FrequencyDaily,
			interval:  3,
			expected:  time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "biweekly",
			current:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			frequency: models.FrequencyWeekly,
			interval:  2,
			expected:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "every second month moves one step only",
			current:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			frequency: models.FrequencyMonthly,
			interval:  2,
			expected:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month end normalizes forward",
			current:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			frequency: models.FrequencyMonthly,
			interval:  1,
			expected:  time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "yearly",
			current:   time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			frequency: models.FrequencyYearly,
			interval:  1,
			expected:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NextRunDate(tc.current, tc.frequency, tc.interval))
		})
	}
}
