package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/pkg/composables"
)

type CommitOutcome int

const (
	Committed CommitOutcome = iota
	CategoryConflictAtCommit
	// DuplicateAtCommit marks an intent whose student became an active member between the
	// constraint check and the insert.
	DuplicateAtCommit
	OtherFailure
)

func (o CommitOutcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case CategoryConflictAtCommit:
		return "category_conflict"
	case DuplicateAtCommit:
		return "duplicate"
	case OtherFailure:
		return "failure"
	default:
		return "unknown"
	}
}

type CommitResult struct {
	Intent  membership.Intent
	Outcome CommitOutcome
	Err     error
}

// CommitCoordinator persists approved intents. It tries one bulk insert and falls back to
// per-row inserts when the bulk statement fails, so one bad row never sinks the batch.
type CommitCoordinator struct {
	repo   membership.Repository
	logger *logrus.Logger
}

func NewCommitCoordinator(repo membership.Repository, logger *logrus.Logger) *CommitCoordinator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CommitCoordinator{repo: repo, logger: logger}
}

// Commit returns exactly one result per intent, in input order.
func (c *CommitCoordinator) Commit(ctx context.Context, intents []membership.Intent) []CommitResult {
	if len(intents) == 0 {
		return nil
	}

	inserted, err := c.repo.BulkInsert(ctx, intents)
	if err == nil {
		return c.classifyBulk(intents, inserted)
	}

	recordCommitFallback()
	composables.TryUseLogger(ctx, c.logger).
		WithError(err).
		WithField("intents", len(intents)).
		Warn("bulk membership insert failed, falling back to per-row inserts")

	results := make([]CommitResult, 0, len(intents))
	for _, intent := range intents {
		res := c.commitOne(ctx, intent)
		recordCommitOutcome(res.Outcome)
		results = append(results, res)
	}
	return results
}

func (c *CommitCoordinator) classifyBulk(intents, inserted []membership.Intent) []CommitResult {
	done := make(map[membership.Intent]struct{}, len(inserted))
	for _, in := range inserted {
		done[in] = struct{}{}
	}

	results := make([]CommitResult, 0, len(intents))
	for _, intent := range intents {
		res := CommitResult{Intent: intent, Outcome: Committed}
		if _, ok := done[intent]; !ok {
			res.Outcome = DuplicateAtCommit
			res.Err = membership.ErrAlreadyMember
		}
		recordCommitOutcome(res.Outcome)
		results = append(results, res)
	}
	return results
}

func (c *CommitCoordinator) commitOne(ctx context.Context, intent membership.Intent) CommitResult {
	_, err := c.repo.InsertOne(ctx, intent)
	switch {
	case err == nil:
		return CommitResult{Intent: intent, Outcome: Committed}
	case errors.Is(err, membership.ErrAlreadyMember):
		return CommitResult{Intent: intent, Outcome: DuplicateAtCommit, Err: err}
	case errors.Is(err, membership.ErrConstraintViolation), errors.Is(err, membership.ErrCategoryConflict):
		return CommitResult{Intent: intent, Outcome: CategoryConflictAtCommit, Err: err}
	default:
		composables.TryUseLogger(ctx, c.logger).
			WithError(err).
			WithFields(logrus.Fields{
				"club_id":    intent.ClubID.String(),
				"student_id": intent.StudentID.String(),
			}).
			Error("membership insert failed, entry dropped")
		return CommitResult{Intent: intent, Outcome: OtherFailure, Err: err}
	}
}
