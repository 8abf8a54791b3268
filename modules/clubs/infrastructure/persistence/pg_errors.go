package persistence

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"

	activeMembershipIndex = "club_memberships_active_unique"
)

// classifyMembershipError maps storage-level constraint failures onto the membership sentinels.
// Anything else is returned unchanged.
func classifyMembershipError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == "" || pgErr.ConstraintName == activeMembershipIndex {
			return fmt.Errorf("%w: %w: %w", membership.ErrConstraintViolation, membership.ErrAlreadyMember, err)
		}
		return fmt.Errorf("%w: %w", membership.ErrConstraintViolation, err)
	case pgCheckViolation:
		return fmt.Errorf("%w: %w: %w", membership.ErrConstraintViolation, membership.ErrCategoryConflict, err)
	default:
		return err
	}
}
