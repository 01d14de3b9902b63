package messages

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emberforge/shopledger-backend/pkg/db/models"
	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service queues notes for offline players and hands them over exactly once.
type Service interface {
	Save(ctx context.Context, receiver uuid.UUID, content string) error
	Pull(ctx context.Context, receiver uuid.UUID) ([]models.Message, error)
}

// ServiceParams groups dependencies for the message service.
type ServiceParams struct {
	Repo Repository
	Tx   txRunner
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a message service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("tx runner is required")
	}
	return &service{repo: params.Repo, tx: params.Tx}, nil
}

func (s *service) Save(ctx context.Context, receiver uuid.UUID, content string) error {
	if receiver == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "receiver is required")
	}
	if content == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	return s.repo.Insert(ctx, &models.Message{Receiver: receiver, Content: content})
}

// Pull fetches and deletes the receiver's queued messages in one
// transaction, so a message is delivered at most once.
func (s *service) Pull(ctx context.Context, receiver uuid.UUID) ([]models.Message, error) {
	var delivered []models.Message
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.ListByReceiver(ctx, receiver)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		if err := repo.DeleteByIDs(ctx, ids); err != nil {
			return err
		}
		delivered = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return delivered, nil
}
