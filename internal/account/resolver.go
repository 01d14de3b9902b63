package account

import (
	"context"
	"errors"

	"github.com/google/uuid"

	pkgerrors "github.com/emberforge/shopledger-backend/pkg/errors"
)

// Resolver maps a tagged account reference onto the canonical account id
// the ledger keys balances on. Resolution is a pure lookup; it never
// touches balances.
type Resolver interface {
	Resolve(ctx context.Context, ref Ref) (uuid.UUID, error)
}

// ResolverParams groups dependencies for the resolver.
type ResolverParams struct {
	Players Directory
}

type resolver struct {
	players Directory
}

// NewResolver builds an account resolver.
func NewResolver(params ResolverParams) (Resolver, error) {
	if params.Players == nil {
		return nil, errors.New("players directory is required")
	}
	return &resolver{players: params.Players}, nil
}

func (r *resolver) Resolve(ctx context.Context, ref Ref) (uuid.UUID, error) {
	switch ref.Kind() {
	case RefKindUUID:
		if ref.id == uuid.Nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is empty")
		}
		return ref.id, nil
	case RefKindHandle:
		if ref.handle == nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "account handle is nil")
		}
		id := ref.handle.UniqueID()
		if id == uuid.Nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "account handle has no id")
		}
		return id, nil
	case RefKindName:
		if ref.name == "" {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "account name is empty")
		}
		player, err := r.players.FindByName(ctx, ref.name)
		if err != nil {
			return uuid.Nil, err
		}
		return player.UUID, nil
	default:
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account reference kind").
			WithDetails(map[string]any{"kind": ref.Kind().String()})
	}
}
