package invoiceservice

import (
	"context"
	"fmt"

	"activos/models"

	"github.com/google/uuid"
)

type InvoiceService interface {
	GenerateInvoice(ctx context.Context, workOrderID uuid.UUID) (uuid.UUID, error)
	MarkPaid(ctx context.Context, invoiceID uuid.UUID, method, externalID string) error
	GetInvoice(ctx context.Context, invoiceID uuid.UUID) (InvoiceRes, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]InvoiceRes, error)
}

type DefaultInvoiceService struct {
	repo InvoiceRepository
}

func NewInvoiceService(repo InvoiceRepository) *DefaultInvoiceService {
	return &DefaultInvoiceService{repo: repo}
}

// GenerateInvoice snapshots the cost total of a resolved work order into a new
// pending invoice. The total is fixed at generation time; costs added to the
// work order afterwards do not change it.
func (s *DefaultInvoiceService) GenerateInvoice(ctx context.Context, workOrderID uuid.UUID) (newID uuid.UUID, err error) {
	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	status, err := s.repo.GetWorkOrderStatusTx(ctx, tx, workOrderID)
	if err != nil {
		return uuid.Nil, err
	}
	if status != models.WorkOrderResolved {
		return uuid.Nil, models.ErrNotResolved
	}

	exists, err := s.repo.HasInvoiceTx(ctx, tx, workOrderID)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, models.ErrAlreadyInvoiced
	}

	total, count, err := s.repo.SumCostsTx(ctx, tx, workOrderID)
	if err != nil {
		return uuid.Nil, err
	}
	if count == 0 {
		return uuid.Nil, models.ErrNoCosts
	}

	newID, err = s.repo.CreateInvoiceTx(ctx, tx, workOrderID, total)
	if err != nil {
		return uuid.Nil, err
	}
	return newID, nil
}

// MarkPaid records an external payment against an invoice. Marking an already
// paid invoice is a no-op so payment webhooks can be retried safely.
func (s *DefaultInvoiceService) MarkPaid(ctx context.Context, invoiceID uuid.UUID, method, externalID string) (err error) {
	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	inv, err := s.repo.GetInvoiceTx(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status == string(models.InvoicePaid) {
		return nil
	}
	return s.repo.MarkPaidTx(ctx, tx, invoiceID, method, externalID, inv.Version)
}

func (s *DefaultInvoiceService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (InvoiceRes, error) {
	return s.repo.GetInvoiceByID(ctx, invoiceID)
}

func (s *DefaultInvoiceService) ListInvoices(ctx context.Context, limit, offset int) ([]InvoiceRes, error) {
	return s.repo.ListInvoices(ctx, limit, offset)
}
