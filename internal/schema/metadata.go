package schema

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emberforge/shopledger-backend/pkg/db/models"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

// VersionKey is the metadata key holding the logical schema version.
const VersionKey = "schema_version"

// CurrentVersion is stamped into the metadata table after every successful
// table initialization.
const CurrentVersion = "1"

// MetadataStore reads and writes the key/value metadata table.
type MetadataStore struct {
	db     *gorm.DB
	prefix string
}

// NewMetadataStore binds a store to the prefixed metadata table.
func NewMetadataStore(db *gorm.DB, prefix string) *MetadataStore {
	return &MetadataStore{db: db, prefix: prefix}
}

// Get returns the value for key, or a NOT_FOUND error.
func (s *MetadataStore) Get(ctx context.Context, key string) (string, error) {
	var row models.Metadata
	err := s.db.WithContext(ctx).
		Table(TableMetadata.PhysicalName(s.prefix)).
		Where("key = ?", key).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "metadata key not found")
		}
		return "", err
	}
	return row.Value, nil
}

// Put upserts the value for key.
func (s *MetadataStore) Put(ctx context.Context, key, value string) error {
	row := models.Metadata{Key: key, Value: value}
	return s.db.WithContext(ctx).
		Table(TableMetadata.PhysicalName(s.prefix)).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{"value": value}),
		}).
		Create(&row).Error
}

// StampVersion records the logical schema version after initialization.
func (s *MetadataStore) StampVersion(ctx context.Context, version string) error {
	return s.Put(ctx, VersionKey, version)
}
