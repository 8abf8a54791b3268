package reconcile

import (
	"github.com/google/uuid"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
)

// MaxActiveMemberships is the number of active memberships a student may hold across all clubs.
const MaxActiveMemberships = 2

type Decision int

const (
	Allowed Decision = iota
	AlreadyMember
	CategoryConflict
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case AlreadyMember:
		return "already_member"
	case CategoryConflict:
		return "category_conflict"
	default:
		return "unknown"
	}
}

// Target is the club an import or manual add is aimed at.
type Target struct {
	ClubID   uuid.UUID
	Category club.Category
}

// CheckConstraint decides whether studentID may join target given the membership snapshot.
// Rows in snapshot that belong to other students are ignored, so callers can pass the snapshot
// of a whole batch.
func CheckConstraint(studentID uuid.UUID, target Target, snapshot []membership.ActiveMembership) Decision {
	held := make([]membership.ActiveMembership, 0, MaxActiveMemberships)
	for _, m := range snapshot {
		if m.StudentID == studentID {
			held = append(held, m)
		}
	}

	for _, m := range held {
		if m.ClubID == target.ClubID {
			return AlreadyMember
		}
	}
	if len(held) >= MaxActiveMemberships {
		return CategoryConflict
	}
	if target.Category.IsValid() {
		for _, m := range held {
			if m.Category == target.Category && m.ClubID != target.ClubID {
				return CategoryConflict
			}
		}
	}
	return Allowed
}
