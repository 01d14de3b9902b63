package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/pkg/db/models"
	"github.com/emberforge/shopledger-backend/pkg/pagination"
)

// TransactionPage is one cursor page of an account's transaction history,
// newest first.
type TransactionPage struct {
	Rows       []models.TransactionLog
	NextCursor string
}

// ListTransactionsByAccount returns log rows where the account appears on
// either side of the movement, keyset-paginated on (time, id) descending.
func (r *repository) ListTransactionsByAccount(ctx context.Context, account uuid.UUID, params pagination.Params) (*TransactionPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Table(schema.TableLogTransaction.PhysicalName(r.prefix)).
		Where("from_account = ? OR to_account = ?", account, account)
	if cursor != nil {
		query = query.Where("time < ? OR (time = ? AND id < ?)", cursor.Time, cursor.Time, cursor.ID)
	}

	var rows []models.TransactionLog
	err = query.
		Order("time DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	page := &TransactionPage{Rows: rows}
	if len(rows) > limit {
		page.Rows = rows[:limit]
		last := page.Rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{Time: last.Time, ID: last.ID})
	}
	return page, nil
}
