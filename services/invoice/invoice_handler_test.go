package invoiceservice

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"activos/models"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoiceService struct {
	generateID  uuid.UUID
	generateErr error
	markPaidErr error
}

func (f *fakeInvoiceService) GenerateInvoice(ctx context.Context, workOrderID uuid.UUID) (uuid.UUID, error) {
	return f.generateID, f.generateErr
}

func (f *fakeInvoiceService) MarkPaid(ctx context.Context, invoiceID uuid.UUID, method, externalID string) error {
	return f.markPaidErr
}

func (f *fakeInvoiceService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (InvoiceRes, error) {
	return InvoiceRes{}, nil
}

func (f *fakeInvoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]InvoiceRes, error) {
	return nil, nil
}

type fakeAuth struct {
	userID string
	roles  []string
	err    error
}

func (f *fakeAuth) JWTAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (f *fakeAuth) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}

func (f *fakeAuth) GetUserAndRolesFromContext(r *http.Request) (string, []string, error) {
	return f.userID, f.roles, f.err
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, actorID uuid.UUID, action, entity, entityID string) {}

func TestGenerateHandler(t *testing.T) {
	adminID := uuid.New()
	workOrderID := uuid.New()
	invoiceID := uuid.New()

	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "creates an invoice",
			body:           GenerateInvoiceReq{WorkOrderID: workOrderID},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unresolved order maps to conflict",
			body:           GenerateInvoiceReq{WorkOrderID: workOrderID},
			serviceErr:     models.ErrNotResolved,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "already invoiced maps to conflict",
			body:           GenerateInvoiceReq{WorkOrderID: workOrderID},
			serviceErr:     models.ErrAlreadyInvoiced,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown order maps to not found",
			body:           GenerateInvoiceReq{WorkOrderID: workOrderID},
			serviceErr:     models.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing work order id fails validation",
			body:           map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewInvoiceHandler(
				&fakeInvoiceService{generateID: invoiceID, generateErr: tc.serviceErr},
				noopAudit{},
				&fakeAuth{userID: adminID.String(), roles: []string{"administrator"}},
			)

			payload, err := jsoniter.Marshal(tc.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/billing/invoices", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.Generate(rec, req)
			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

func TestMarkPaidHandler(t *testing.T) {
	adminID := uuid.New()
	invoiceID := uuid.New()

	body := MarkPaidReq{
		InvoiceID:             invoiceID,
		ExternalTransactionID: "txn_8841",
		Method:                "card",
	}

	t.Run("records a payment", func(t *testing.T) {
		handler := NewInvoiceHandler(
			&fakeInvoiceService{},
			noopAudit{},
			&fakeAuth{userID: adminID.String(), roles: []string{"administrator"}},
		)

		payload, err := jsoniter.Marshal(body)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/billing/invoices/paid", bytes.NewReader(payload))
		rec := httptest.NewRecorder()

		handler.MarkPaid(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects an unauthenticated caller", func(t *testing.T) {
		handler := NewInvoiceHandler(
			&fakeInvoiceService{},
			noopAudit{},
			&fakeAuth{err: models.ErrForbidden},
		)

		payload, err := jsoniter.Marshal(body)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/billing/invoices/paid", bytes.NewReader(payload))
		rec := httptest.NewRecorder()

		handler.MarkPaid(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
