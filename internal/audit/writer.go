package audit

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/emberforge/shopledger-backend/pkg/db/models"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

// Writer appends audit records. Every write failure is wrapped with the
// AUDIT_WRITE_FAILED code so callers can distinguish a logging gap from the
// business outcome they are reporting.
type Writer interface {
	RecordTransaction(ctx context.Context, row *models.TransactionLog) error
	RecordPurchase(ctx context.Context, row *models.PurchaseLog) error
	RecordChange(ctx context.Context, row *models.ChangeLog) error
	RecordEvent(ctx context.Context, eventType string, payload any) error
}

// WriterParams groups dependencies for the audit writer.
type WriterParams struct {
	Repo Repository
}

type writer struct {
	repo Repository
}

// NewWriter builds an audit writer.
func NewWriter(params WriterParams) (Writer, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &writer{repo: params.Repo}, nil
}

func (w *writer) RecordTransaction(ctx context.Context, row *models.TransactionLog) error {
	if err := w.repo.InsertTransaction(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAuditWrite, err, "append transaction log")
	}
	return nil
}

func (w *writer) RecordPurchase(ctx context.Context, row *models.PurchaseLog) error {
	if err := w.repo.InsertPurchase(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAuditWrite, err, "append purchase log")
	}
	return nil
}

func (w *writer) RecordChange(ctx context.Context, row *models.ChangeLog) error {
	if err := w.repo.InsertChange(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAuditWrite, err, "append change log")
	}
	return nil
}

func (w *writer) RecordEvent(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAuditWrite, err, "encode event payload")
	}
	row := models.EventLog{Type: eventType, Data: data}
	if err := w.repo.InsertEvent(ctx, &row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAuditWrite, err, "append event log")
	}
	return nil
}
