package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/services"
)

func intentsFor(clubID uuid.UUID, n int) []membership.Intent {
	out := make([]membership.Intent, n)
	for i := range out {
		out[i] = membership.Intent{StudentID: uuid.New(), ClubID: clubID}
	}
	return out
}

func outcomes(results []services.CommitResult) []services.CommitOutcome {
	out := make([]services.CommitOutcome, len(results))
	for i, r := range results {
		out[i] = r.Outcome
	}
	return out
}

func TestCommitCoordinator_BulkSuccess(t *testing.T) {
	c := newClub(club.CategorySubject)
	repo := newMockMembershipRepo(newMockClubRepo(c))
	intents := intentsFor(c.ID(), 3)

	results := services.NewCommitCoordinator(repo, nil).Commit(context.Background(), intents)

	require.Equal(t, []services.CommitOutcome{services.Committed, services.Committed, services.Committed}, outcomes(results))
	require.Equal(t, 1, repo.bulkCalls)
	require.Zero(t, repo.insertCalls)
	require.Equal(t, 3, repo.activeCount(c.ID()))
}

func TestCommitCoordinator_BulkSkippedRowsAreDuplicates(t *testing.T) {
	c := newClub(club.CategorySubject)
	repo := newMockMembershipRepo(newMockClubRepo(c))
	intents := intentsFor(c.ID(), 2)
	repo.seed(c.ID(), intents[1].StudentID)

	results := services.NewCommitCoordinator(repo, nil).Commit(context.Background(), intents)

	require.Equal(t, []services.CommitOutcome{services.Committed, services.DuplicateAtCommit}, outcomes(results))
	require.ErrorIs(t, results[1].Err, membership.ErrAlreadyMember)
}

func TestCommitCoordinator_FallbackClassifiesEachRow(t *testing.T) {
	c := newClub(club.CategorySubject)
	repo := newMockMembershipRepo(newMockClubRepo(c))
	repo.bulkErr = categoryConflictErr

	intents := intentsFor(c.ID(), 4)
	repo.rowErr[intents[1].StudentID] = categoryConflictErr
	repo.rowErr[intents[2].StudentID] = errors.New("connection reset")
	repo.seed(c.ID(), intents[3].StudentID)

	logger, hook := test.NewNullLogger()
	results := services.NewCommitCoordinator(repo, logger).Commit(context.Background(), intents)

	require.Equal(t, []services.CommitOutcome{
		services.Committed,
		services.CategoryConflictAtCommit,
		services.OtherFailure,
		services.DuplicateAtCommit,
	}, outcomes(results))
	require.Equal(t, 1, repo.bulkCalls)
	require.Equal(t, 4, repo.insertCalls)

	var warned, failed bool
	for _, e := range hook.AllEntries() {
		switch e.Level {
		case logrus.WarnLevel:
			warned = true
		case logrus.ErrorLevel:
			failed = true
			require.Equal(t, intents[2].StudentID.String(), e.Data["student_id"])
		}
	}
	require.True(t, warned, "fallback should be logged")
	require.True(t, failed, "dropped row should be logged")
}

func TestCommitCoordinator_Empty(t *testing.T) {
	repo := newMockMembershipRepo(newMockClubRepo())
	require.Empty(t, services.NewCommitCoordinator(repo, nil).Commit(context.Background(), nil))
	require.Zero(t, repo.bulkCalls)
}

func TestCommitOutcome_String(t *testing.T) {
	require.Equal(t, "committed", services.Committed.String())
	require.Equal(t, "category_conflict", services.CategoryConflictAtCommit.String())
	require.Equal(t, "duplicate", services.DuplicateAtCommit.String())
	require.Equal(t, "failure", services.OtherFailure.String())
}
