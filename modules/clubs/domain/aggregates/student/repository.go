package student

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("student not found")

type Repository interface {
	ListAll(ctx context.Context) ([]Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (Student, error)
}
