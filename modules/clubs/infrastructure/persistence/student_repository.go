package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/persistence/models"
	"github.com/iota-uz/clubs/pkg/composables"
)

const (
	studentSelectQuery = `
        SELECT
            s.id,
            s.first_name,
            s.last_name,
            s.grade,
            s.combination,
            s.gender
        FROM students s`

	// Stable order keeps tie-breaking in the matcher deterministic across runs.
	studentListAllQuery = studentSelectQuery + ` ORDER BY s.last_name, s.first_name, s.id`

	studentGetByIDQuery = studentSelectQuery + ` WHERE s.id = $1`
)

type PgStudentRepository struct{}

func NewStudentRepository() student.Repository {
	return &PgStudentRepository{}
}

func (r *PgStudentRepository) ListAll(ctx context.Context) ([]student.Student, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, studentListAllQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query students")
	}
	defer rows.Close()

	var out []student.Student
	for rows.Next() {
		var row models.Student
		if err := rows.Scan(&row.ID, &row.FirstName, &row.LastName, &row.Grade, &row.Combination, &row.Gender); err != nil {
			return nil, errors.Wrap(err, "failed to scan student")
		}
		s, err := toDomainStudent(&row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (student.Student, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return student.Student{}, err
	}
	var row models.Student
	err = tx.QueryRow(ctx, studentGetByIDQuery, id.String()).
		Scan(&row.ID, &row.FirstName, &row.LastName, &row.Grade, &row.Combination, &row.Gender)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "failed to get student")
	}
	return toDomainStudent(&row)
}
