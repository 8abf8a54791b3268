package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Student struct {
	ID          string
	FirstName   string
	LastName    string
	Grade       string
	Combination string
	Gender      string
}

type Club struct {
	ID        string
	Name      string
	Category  string
	CreatedAt time.Time
}

type ClubMembership struct {
	ID               string
	ClubID           string
	StudentID        string
	MembershipStatus string
	JoinedAt         time.Time
	LeftAt           pgtype.Timestamptz
}

type ActiveMembership struct {
	StudentID string
	ClubID    string
	Category  string
}

type ClubMember struct {
	ClubMembership
	FirstName string
	LastName  string
	Grade     string
}
