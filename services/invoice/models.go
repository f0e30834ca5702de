package invoiceservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GenerateInvoiceReq struct {
	WorkOrderID uuid.UUID `json:"work_order_id" validate:"required"`
}

type MarkPaidReq struct {
	InvoiceID             uuid.UUID `json:"invoice_id" validate:"required"`
	ExternalTransactionID string    `json:"external_transaction_id" validate:"required"`
	Method                string    `json:"method" validate:"required"`
}

type InvoiceRes struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	WorkOrderID       uuid.UUID       `json:"work_order_id" db:"work_order_id"`
	IssuedAt          time.Time       `json:"issued_at" db:"issued_at"`
	TotalAmount       decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status            string          `json:"status" db:"status"`
	PaymentMethod     *string         `json:"payment_method,omitempty" db:"payment_method"`
	ExternalPaymentID *string         `json:"external_payment_id,omitempty" db:"external_payment_id"`
	Version           int             `json:"version" db:"version"`
}
