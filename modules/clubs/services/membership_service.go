package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
	"github.com/iota-uz/clubs/modules/clubs/domain/events"
	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
	"github.com/iota-uz/clubs/pkg/eventbus"
)

// MembershipService covers manual enrolment from the club page. It applies the same constraint
// rules as the importer, one student at a time.
type MembershipService struct {
	clubs       club.Repository
	students    student.Repository
	memberships membership.Repository
	publisher   eventbus.EventBus
}

func NewMembershipService(
	clubs club.Repository,
	students student.Repository,
	memberships membership.Repository,
	publisher eventbus.EventBus,
) *MembershipService {
	return &MembershipService{
		clubs:       clubs,
		students:    students,
		memberships: memberships,
		publisher:   publisher,
	}
}

func (s *MembershipService) Add(ctx context.Context, clubID, studentID uuid.UUID) (membership.Membership, error) {
	target, err := s.getClub(ctx, clubID)
	if err != nil {
		return membership.Membership{}, err
	}
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return membership.Membership{}, ErrStudentNotFound
		}
		return membership.Membership{}, fmt.Errorf("load student: %w", err)
	}

	active, err := s.memberships.ListActiveForStudents(ctx, []uuid.UUID{studentID})
	if err != nil {
		return membership.Membership{}, fmt.Errorf("load active memberships: %w", err)
	}
	goal := reconcile.Target{ClubID: target.ID(), Category: target.Category()}
	switch reconcile.CheckConstraint(studentID, goal, active) {
	case reconcile.AlreadyMember:
		return membership.Membership{}, ErrAlreadyMember
	case reconcile.CategoryConflict:
		return membership.Membership{}, ErrCategoryLimit
	case reconcile.Allowed:
	}

	created, err := s.memberships.InsertOne(ctx, membership.Intent{StudentID: studentID, ClubID: target.ID()})
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrAlreadyMember):
			return membership.Membership{}, ErrAlreadyMember
		case errors.Is(err, membership.ErrConstraintViolation):
			return membership.Membership{}, ErrCategoryLimit
		}
		return membership.Membership{}, fmt.Errorf("insert membership: %w", err)
	}
	s.publish(events.NewMembershipAddedEvent(created))
	return created, nil
}

// Remove marks the active membership as left. Rows are never deleted.
func (s *MembershipService) Remove(ctx context.Context, clubID, studentID uuid.UUID) (membership.Membership, error) {
	left, err := s.memberships.MarkLeft(ctx, clubID, studentID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, membership.ErrNotFound) {
			return membership.Membership{}, ErrNotMember
		}
		return membership.Membership{}, fmt.Errorf("mark membership left: %w", err)
	}
	s.publish(events.NewMembershipRemovedEvent(left))
	return left, nil
}

func (s *MembershipService) ListMembers(ctx context.Context, clubID uuid.UUID, params *membership.FindParams) ([]membership.Member, int64, error) {
	if _, err := s.getClub(ctx, clubID); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &membership.FindParams{}
	}
	if params.Status == "" {
		params.Status = membership.StatusActive
	}
	return s.memberships.ListByClub(ctx, clubID, params)
}

func (s *MembershipService) getClub(ctx context.Context, clubID uuid.UUID) (club.Club, error) {
	if clubID == uuid.Nil {
		return club.Club{}, ErrNoClub
	}
	c, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return club.Club{}, ErrClubNotFound
		}
		return club.Club{}, fmt.Errorf("load club: %w", err)
	}
	return c, nil
}

func (s *MembershipService) publish(event interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}
