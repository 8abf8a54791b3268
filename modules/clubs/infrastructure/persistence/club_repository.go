package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/persistence/models"
	"github.com/iota-uz/clubs/pkg/composables"
)

const clubGetByIDQuery = `SELECT c.id, c.name, c.category, c.created_at FROM clubs c WHERE c.id = $1`

type PgClubRepository struct{}

func NewClubRepository() club.Repository {
	return &PgClubRepository{}
}

func (r *PgClubRepository) GetByID(ctx context.Context, id uuid.UUID) (club.Club, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return club.Club{}, err
	}
	var row models.Club
	if err := tx.QueryRow(ctx, clubGetByIDQuery, id.String()).Scan(&row.ID, &row.Name, &row.Category, &row.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return club.Club{}, club.ErrNotFound
		}
		return club.Club{}, errors.Wrap(err, "failed to get club")
	}
	return toDomainClub(&row)
}
