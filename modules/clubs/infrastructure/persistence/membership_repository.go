package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/persistence/models"
	"github.com/iota-uz/clubs/pkg/composables"
	"github.com/iota-uz/clubs/pkg/repo"
)

const (
	membershipColumns = `m.id, m.club_id, m.student_id, m.membership_status, m.joined_at, m.left_at`

	membershipListActiveQuery = `
        SELECT m.student_id, m.club_id, c.category
        FROM club_memberships m
        JOIN clubs c ON c.id = m.club_id
        WHERE m.membership_status = 'active'
          AND m.student_id = ANY($1::uuid[])`

	membershipBulkInsertQuery = `
        INSERT INTO club_memberships (club_id, student_id, membership_status, joined_at)
        SELECT i.club_id, i.student_id, 'active', $3
        FROM unnest($1::uuid[], $2::uuid[]) AS i(club_id, student_id)
        ON CONFLICT (club_id, student_id) WHERE membership_status = 'active' DO NOTHING
        RETURNING club_id, student_id`

	membershipInsertQuery = `
        INSERT INTO club_memberships AS m (club_id, student_id, membership_status, joined_at)
        VALUES ($1, $2, 'active', $3)
        RETURNING ` + membershipColumns

	membershipMarkLeftQuery = `
        UPDATE club_memberships AS m
        SET membership_status = 'left', left_at = $3
        WHERE m.club_id = $1 AND m.student_id = $2 AND m.membership_status = 'active'
        RETURNING ` + membershipColumns

	membershipListByClubQuery = `
        SELECT ` + membershipColumns + `, s.first_name, s.last_name, s.grade
        FROM club_memberships m
        JOIN students s ON s.id = m.student_id`

	membershipCountByClubQuery = `SELECT COUNT(*) FROM club_memberships m`
)

type PgMembershipRepository struct{}

func NewMembershipRepository() membership.Repository {
	return &PgMembershipRepository{}
}

func (r *PgMembershipRepository) ListActiveForStudents(ctx context.Context, studentIDs []uuid.UUID) ([]membership.ActiveMembership, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, membershipListActiveQuery, uuidStrings(studentIDs))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query active memberships")
	}
	defer rows.Close()

	var out []membership.ActiveMembership
	for rows.Next() {
		var row models.ActiveMembership
		if err := rows.Scan(&row.StudentID, &row.ClubID, &row.Category); err != nil {
			return nil, errors.Wrap(err, "failed to scan active membership")
		}
		am, err := toDomainActiveMembership(&row)
		if err != nil {
			return nil, err
		}
		out = append(out, am)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// BulkInsert is a single statement, so a constraint failure on any row rejects the whole batch.
func (r *PgMembershipRepository) BulkInsert(ctx context.Context, intents []membership.Intent) ([]membership.Intent, error) {
	if len(intents) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	clubIDs := make([]string, len(intents))
	studentIDs := make([]string, len(intents))
	for i, in := range intents {
		clubIDs[i] = in.ClubID.String()
		studentIDs[i] = in.StudentID.String()
	}

	rows, err := tx.Query(ctx, membershipBulkInsertQuery, clubIDs, studentIDs, time.Now().UTC())
	if err != nil {
		return nil, classifyMembershipError(err)
	}
	defer rows.Close()

	inserted := make([]membership.Intent, 0, len(intents))
	for rows.Next() {
		var clubID, studentID string
		if err := rows.Scan(&clubID, &studentID); err != nil {
			return nil, errors.Wrap(err, "failed to scan inserted membership")
		}
		in, err := parseIntent(clubID, studentID)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, in)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyMembershipError(err)
	}
	return inserted, nil
}

func (r *PgMembershipRepository) InsertOne(ctx context.Context, intent membership.Intent) (membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return membership.Membership{}, err
	}
	row, err := scanMembership(tx.QueryRow(ctx, membershipInsertQuery,
		intent.ClubID.String(), intent.StudentID.String(), time.Now().UTC()))
	if err != nil {
		return membership.Membership{}, classifyMembershipError(err)
	}
	return toDomainMembership(row)
}

func (r *PgMembershipRepository) MarkLeft(ctx context.Context, clubID, studentID uuid.UUID, at time.Time) (membership.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return membership.Membership{}, err
	}
	row, err := scanMembership(tx.QueryRow(ctx, membershipMarkLeftQuery, clubID.String(), studentID.String(), at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return membership.Membership{}, membership.ErrNotFound
		}
		return membership.Membership{}, errors.Wrap(err, "failed to mark membership left")
	}
	return toDomainMembership(row)
}

func (r *PgMembershipRepository) ListByClub(ctx context.Context, clubID uuid.UUID, params *membership.FindParams) ([]membership.Member, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &membership.FindParams{}
	}

	where, args := buildMemberFilters(clubID, params)
	whereClause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := tx.QueryRow(ctx, membershipCountByClubQuery+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count members")
	}

	query := membershipListByClubQuery + whereClause + " ORDER BY s.last_name, s.first_name, m.joined_at " +
		repo.FormatLimitOffset(params.Limit, params.Offset)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to query members")
	}
	defer rows.Close()

	var out []membership.Member
	for rows.Next() {
		var row models.ClubMember
		if err := rows.Scan(
			&row.ID,
			&row.ClubID,
			&row.StudentID,
			&row.MembershipStatus,
			&row.JoinedAt,
			&row.LeftAt,
			&row.FirstName,
			&row.LastName,
			&row.Grade,
		); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan member")
		}
		m, err := toDomainMember(&row)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func buildMemberFilters(clubID uuid.UUID, params *membership.FindParams) ([]string, []interface{}) {
	where := []string{"m.club_id = $1"}
	args := []interface{}{clubID.String()}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("m.membership_status = $%d", len(args)))
	}
	return where, args
}

func scanMembership(row interface{ Scan(dest ...any) error }) (*models.ClubMembership, error) {
	var m models.ClubMembership
	if err := row.Scan(&m.ID, &m.ClubID, &m.StudentID, &m.MembershipStatus, &m.JoinedAt, &m.LeftAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func parseIntent(clubID, studentID string) (membership.Intent, error) {
	c, err := uuid.Parse(clubID)
	if err != nil {
		return membership.Intent{}, fmt.Errorf("parse club id: %w", err)
	}
	s, err := uuid.Parse(studentID)
	if err != nil {
		return membership.Intent{}, fmt.Errorf("parse student id: %w", err)
	}
	return membership.Intent{ClubID: c, StudentID: s}, nil
}
