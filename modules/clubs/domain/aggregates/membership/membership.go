package membership

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
)

type Status string

const (
	StatusActive Status = "active"
	StatusLeft   Status = "left"
)

type Membership struct {
	id        uuid.UUID
	clubID    uuid.UUID
	studentID uuid.UUID
	status    Status
	joinedAt  time.Time
	leftAt    *time.Time
}

func Hydrate(
	id uuid.UUID,
	clubID uuid.UUID,
	studentID uuid.UUID,
	status Status,
	joinedAt time.Time,
	leftAt *time.Time,
) Membership {
	return Membership{
		id:        id,
		clubID:    clubID,
		studentID: studentID,
		status:    status,
		joinedAt:  joinedAt,
		leftAt:    leftAt,
	}
}

func (m Membership) ID() uuid.UUID        { return m.id }
func (m Membership) ClubID() uuid.UUID    { return m.clubID }
func (m Membership) StudentID() uuid.UUID { return m.studentID }
func (m Membership) Status() Status       { return m.status }
func (m Membership) JoinedAt() time.Time  { return m.joinedAt }
func (m Membership) LeftAt() *time.Time   { return m.leftAt }
func (m Membership) IsActive() bool       { return m.status == StatusActive }

// Intent is a membership waiting for a constraint decision.
type Intent struct {
	StudentID uuid.UUID
	ClubID    uuid.UUID
}

// ActiveMembership is one row of a student's membership snapshot.
type ActiveMembership struct {
	StudentID uuid.UUID
	ClubID    uuid.UUID
	Category  club.Category
}

// Member is a membership joined with the student's display fields.
type Member struct {
	Membership
	FirstName string
	LastName  string
	Grade     string
}
