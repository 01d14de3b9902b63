package schema

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

// Executor is the slice of the database client the registry needs.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) *gorm.DB
}

// InitializeTables creates every declared table against the store, using
// prefix + logical name as the physical name. Creation is idempotent: running
// it against a store that already has the tables is a no-op. The first
// failure aborts with a SCHEMA_INIT_ERROR; tables created before the failure
// are left in place and callers must treat the partial state as fatal.
func InitializeTables(ctx context.Context, store Executor, prefix string, dialect Dialect) error {
	if store == nil {
		return pkgerrors.New(pkgerrors.CodeSchemaInit, "store is required")
	}
	for _, table := range Tables {
		if err := createTable(ctx, store, table, prefix, dialect); err != nil {
			return err
		}
	}
	return nil
}

func createTable(ctx context.Context, store Executor, table Table, prefix string, dialect Dialect) error {
	physical := table.PhysicalName(prefix)
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		physical,
		strings.Join(table.columns(dialect), ", "),
	)
	if err := store.Exec(ctx, ddl).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSchemaInit, err, fmt.Sprintf("create table %s", physical)).
			WithDetails(map[string]any{"table": table.Name(), "physical": physical})
	}

	if table.indexes == nil {
		return nil
	}
	for _, stmt := range table.indexes(physical) {
		if err := store.Exec(ctx, stmt).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeSchemaInit, err, fmt.Sprintf("create index on %s", physical)).
				WithDetails(map[string]any{"table": table.Name(), "physical": physical})
		}
	}
	return nil
}
