package membership

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("membership not found")

	// ErrConstraintViolation wraps every storage-level rejection of a membership row.
	// Stores join it with ErrAlreadyMember or ErrCategoryConflict.
	ErrConstraintViolation = errors.New("membership constraint violation")
	ErrAlreadyMember       = errors.New("student is already an active member of this club")
	ErrCategoryConflict    = errors.New("student has reached the membership limit for this category")
)

type FindParams struct {
	Status Status
	Limit  int
	Offset int
}

type Repository interface {
	ListActiveForStudents(ctx context.Context, studentIDs []uuid.UUID) ([]ActiveMembership, error)
	// BulkInsert inserts intents as active memberships, skipping rows that collide with an existing
	// active membership. It returns the intents that were actually inserted.
	BulkInsert(ctx context.Context, intents []Intent) ([]Intent, error)
	InsertOne(ctx context.Context, intent Intent) (Membership, error)
	MarkLeft(ctx context.Context, clubID, studentID uuid.UUID, at time.Time) (Membership, error)
	ListByClub(ctx context.Context, clubID uuid.UUID, params *FindParams) ([]Member, int64, error)
}
