package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
)

// ImportCompletedEvent is published after every import run that produced a summary.
type ImportCompletedEvent struct {
	ClubID     uuid.UUID
	Summary    reconcile.Summary
	DryRun     bool
	OccurredAt time.Time
}

func NewImportCompletedEvent(clubID uuid.UUID, summary reconcile.Summary, dryRun bool) *ImportCompletedEvent {
	return &ImportCompletedEvent{
		ClubID:     clubID,
		Summary:    summary,
		DryRun:     dryRun,
		OccurredAt: time.Now().UTC(),
	}
}

type MembershipAddedEvent struct {
	Result     membership.Membership
	OccurredAt time.Time
}

type MembershipRemovedEvent struct {
	Result     membership.Membership
	OccurredAt time.Time
}

func NewMembershipAddedEvent(m membership.Membership) *MembershipAddedEvent {
	return &MembershipAddedEvent{Result: m, OccurredAt: time.Now().UTC()}
}

func NewMembershipRemovedEvent(m membership.Membership) *MembershipRemovedEvent {
	return &MembershipRemovedEvent{Result: m, OccurredAt: time.Now().UTC()}
}
