package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/internal/audit"
	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/pkg/logger"
)

const defaultLogLifetimeDays = 180

// storeExecutor is the slice of the database client the job needs.
type storeExecutor interface {
	Exec(ctx context.Context, query string, args ...any) *gorm.DB
}

// LogRetentionJobParams configure the log retention job.
type LogRetentionJobParams struct {
	Logger       *logger.Logger
	Store        storeExecutor
	Audit        audit.Writer
	Prefix       string
	LifetimeDays int
}

// NewLogRetentionJob builds the job that purges aged rows from the four
// append-only log tables. Live auditing never deletes; this is the one
// operational path that removes rows, and only past the configured
// lifetime.
func NewLogRetentionJob(params LogRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	lifetime := params.LifetimeDays
	if lifetime <= 0 {
		lifetime = defaultLogLifetimeDays
	}
	return &logRetentionJob{
		logg:     params.Logger,
		store:    params.Store,
		audit:    params.Audit,
		prefix:   params.Prefix,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

type logRetentionJob struct {
	logg     *logger.Logger
	store    storeExecutor
	audit    audit.Writer
	prefix   string
	lifetime int
	now      func() time.Time
}

func (j *logRetentionJob) Name() string { return "log-retention" }

func (j *logRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.lifetime)

	var purged int64
	var errs error
	for _, table := range schema.LogTables {
		physical := table.PhysicalName(j.prefix)
		result := j.store.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE time < ?", physical), cutoff)
		if result.Error != nil {
			errs = multierr.Append(errs, fmt.Errorf("purge %s: %w", physical, result.Error))
			continue
		}
		purged += result.RowsAffected
	}
	if errs != nil {
		return fmt.Errorf("log retention: %w", errs)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"lifetime_days": j.lifetime,
		"rows_purged":   purged,
	})
	j.logg.Info(logCtx, "log retention purge complete")

	if j.audit != nil {
		payload := map[string]any{
			"job":         j.Name(),
			"cutoff":      cutoff.Format(time.RFC3339),
			"rows_purged": purged,
		}
		if err := j.audit.RecordEvent(ctx, "retention_run", payload); err != nil {
			return err
		}
	}
	return nil
}
