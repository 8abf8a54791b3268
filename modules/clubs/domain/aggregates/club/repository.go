package club

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("club not found")
	ErrInvalidCategory = errors.New("invalid club category")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Club, error)
}
