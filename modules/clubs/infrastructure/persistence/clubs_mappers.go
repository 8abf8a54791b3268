package persistence

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/persistence/models"
)

func toDomainStudent(dbStudent *models.Student) (student.Student, error) {
	id, err := uuid.Parse(dbStudent.ID)
	if err != nil {
		return student.Student{}, fmt.Errorf("parse student id: %w", err)
	}
	return student.Hydrate(
		id,
		dbStudent.FirstName,
		dbStudent.LastName,
		dbStudent.Grade,
		dbStudent.Combination,
		dbStudent.Gender,
	), nil
}

func toDomainClub(dbClub *models.Club) (club.Club, error) {
	id, err := uuid.Parse(dbClub.ID)
	if err != nil {
		return club.Club{}, fmt.Errorf("parse club id: %w", err)
	}
	category, err := club.ParseCategory(dbClub.Category)
	if err != nil {
		return club.Club{}, err
	}
	return club.Hydrate(id, dbClub.Name, category, dbClub.CreatedAt), nil
}

func toDomainMembership(dbMembership *models.ClubMembership) (membership.Membership, error) {
	id, err := uuid.Parse(dbMembership.ID)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("parse membership id: %w", err)
	}
	clubID, err := uuid.Parse(dbMembership.ClubID)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("parse club id: %w", err)
	}
	studentID, err := uuid.Parse(dbMembership.StudentID)
	if err != nil {
		return membership.Membership{}, fmt.Errorf("parse student id: %w", err)
	}
	return membership.Hydrate(
		id,
		clubID,
		studentID,
		membership.Status(dbMembership.MembershipStatus),
		dbMembership.JoinedAt,
		timestamptzToPtr(dbMembership.LeftAt),
	), nil
}

func toDomainActiveMembership(row *models.ActiveMembership) (membership.ActiveMembership, error) {
	studentID, err := uuid.Parse(row.StudentID)
	if err != nil {
		return membership.ActiveMembership{}, fmt.Errorf("parse student id: %w", err)
	}
	clubID, err := uuid.Parse(row.ClubID)
	if err != nil {
		return membership.ActiveMembership{}, fmt.Errorf("parse club id: %w", err)
	}
	return membership.ActiveMembership{
		StudentID: studentID,
		ClubID:    clubID,
		Category:  club.Category(row.Category),
	}, nil
}

func toDomainMember(row *models.ClubMember) (membership.Member, error) {
	m, err := toDomainMembership(&row.ClubMembership)
	if err != nil {
		return membership.Member{}, err
	}
	return membership.Member{
		Membership: m,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Grade:      row.Grade,
	}, nil
}

func timestamptzToPtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
