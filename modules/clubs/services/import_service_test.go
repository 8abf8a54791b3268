package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
	"github.com/iota-uz/clubs/modules/clubs/domain/events"
	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/extraction"
	"github.com/iota-uz/clubs/modules/clubs/services"
	"github.com/iota-uz/clubs/pkg/serrors"
)

func newClub(category club.Category) club.Club {
	return club.Hydrate(uuid.New(), "Club "+string(category), category, time.Now())
}

func newStudent(first, last, grade string) student.Student {
	return student.Hydrate(uuid.New(), first, last, grade, "PCM", "F")
}

type importFixture struct {
	club        club.Club
	clubs       *mockClubRepo
	students    *mockStudentRepo
	memberships *mockMembershipRepo
	extractor   *staticExtractor
	bus         *recordingBus
	svc         *services.ImportService
}

func newImportFixture(category club.Category, names []string, records ...student.Student) *importFixture {
	c := newClub(category)
	f := &importFixture{
		club:      c,
		clubs:     newMockClubRepo(c),
		students:  &mockStudentRepo{records: records},
		extractor: &staticExtractor{names: names},
		bus:       &recordingBus{},
	}
	f.memberships = newMockMembershipRepo(f.clubs)
	f.svc = services.NewImportService(
		f.students, f.clubs, f.memberships, f.extractor, f.bus, nil,
		services.ImportOptions{Threshold: reconcile.DefaultThreshold, ExcludedGrades: []string{"S6"}},
	)
	return f
}

func (f *importFixture) addClub(category club.Category) club.Club {
	c := newClub(category)
	f.clubs.clubs[c.ID()] = c
	return c
}

func (f *importFixture) run(t *testing.T, dryRun bool) *services.ImportResult {
	t.Helper()
	res, err := f.svc.Import(context.Background(), services.ImportRequest{
		ClubID:   f.club.ID(),
		Document: extraction.Document{Path: "roster.txt", ContentType: extraction.ContentTypeText},
		DryRun:   dryRun,
	})
	require.NoError(t, err)
	return res
}

func TestImport_EndToEndDuplicateCollapse(t *testing.T) {
	john := newStudent("John", "Smith", "S4")
	f := newImportFixture(club.CategorySubject, []string{"John Smith", "Smith John", "X"}, john)

	res := f.run(t, false)

	require.Equal(t, reconcile.Summary{
		TotalExtracted:    3,
		TotalMatched:      2,
		AvailableToAdd:    1,
		SuccessfullyAdded: 1,
		Unmatched:         1,
		Duplicates:        1,
	}, res.Summary)
	require.Len(t, res.Added, 1)
	require.Equal(t, john.ID(), res.Added[0].StudentID)
	require.Equal(t, "John Smith", res.Added[0].Name)
	require.Equal(t, "John Smith", res.Added[0].ExtractedName)
	require.Equal(t, 100, res.Added[0].MatchScore)
	require.Equal(t, []string{"X"}, res.Unmatched)
	require.Len(t, res.Duplicates, 1)
	require.Equal(t, "Smith John", res.Duplicates[0].ExtractedName)
	require.Equal(t, 1, f.memberships.activeCount(f.club.ID()))
}

func TestImport_EndToEndAlreadyMember(t *testing.T) {
	john := newStudent("John", "Smith", "S4")
	f := newImportFixture(club.CategorySubject, []string{"John Smith", "Smith John", "X"}, john)
	f.memberships.seed(f.club.ID(), john.ID())

	res := f.run(t, false)

	require.Equal(t, 1, res.Summary.AlreadyMembers)
	require.Equal(t, 0, res.Summary.SuccessfullyAdded)
	require.Equal(t, 0, res.Summary.AvailableToAdd)
	require.Equal(t, 2, res.Summary.TotalMatched)
	require.Len(t, res.Conflicts, 1)
	require.Zero(t, f.memberships.bulkCalls)
}

func TestImport_DuplicateKeepsHigherScore(t *testing.T) {
	jon := newStudent("Jonathan", "Smith", "S4")
	f := newImportFixture(club.CategorySubject, []string{"Jon Smith", "Jonathan Smith"}, jon)

	res := f.run(t, false)

	require.Len(t, res.Added, 1)
	require.Equal(t, "Jonathan Smith", res.Added[0].ExtractedName)
	require.Equal(t, 100, res.Added[0].MatchScore)
	require.Len(t, res.Duplicates, 1)
	require.Equal(t, 75, res.Duplicates[0].MatchScore)
}

func TestImport_Idempotent(t *testing.T) {
	records := []student.Student{
		newStudent("John", "Smith", "S4"),
		newStudent("Ann", "Lee", "S3"),
	}
	f := newImportFixture(club.CategorySoftSkills, []string{"John Smith", "Lee Ann"}, records...)

	first := f.run(t, false)
	require.Equal(t, 2, first.Summary.SuccessfullyAdded)

	second := f.run(t, false)
	require.Equal(t, 0, second.Summary.SuccessfullyAdded)
	require.Empty(t, second.Added)
	require.Equal(t, 2, second.Summary.AlreadyMembers)

	got := []uuid.UUID{second.Conflicts[0].StudentID, second.Conflicts[1].StudentID}
	require.ElementsMatch(t, []uuid.UUID{records[0].ID(), records[1].ID()}, got)
}

func TestImport_CategoryRules(t *testing.T) {
	full := newStudent("John", "Smith", "S4")
	subject := newStudent("Ann", "Lee", "S3")
	free := newStudent("Bob", "Marley", "S2")

	f := newImportFixture(club.CategorySubject, []string{"John Smith", "Ann Lee", "Bob Marley"}, full, subject, free)
	f.memberships.seed(f.addClub(club.CategorySubject).ID(), full.ID())
	f.memberships.seed(f.addClub(club.CategorySoftSkills).ID(), full.ID())
	f.memberships.seed(f.addClub(club.CategorySubject).ID(), subject.ID())

	res := f.run(t, false)

	require.Equal(t, 2, res.Summary.CategoryConflicts)
	require.Equal(t, 1, res.Summary.SuccessfullyAdded)
	require.Equal(t, free.ID(), res.Added[0].StudentID)
}

func TestImport_SoftSkillsAllowedNextToSubject(t *testing.T) {
	ann := newStudent("Ann", "Lee", "S3")
	f := newImportFixture(club.CategorySoftSkills, []string{"Ann Lee"}, ann)
	f.memberships.seed(f.addClub(club.CategorySubject).ID(), ann.ID())

	res := f.run(t, false)
	require.Equal(t, 1, res.Summary.SuccessfullyAdded)
	require.Zero(t, res.Summary.CategoryConflicts)
}

func TestImport_GraduatingStudentsAreNotTargets(t *testing.T) {
	f := newImportFixture(club.CategorySubject, []string{"John Smith"}, newStudent("John", "Smith", "S6"))

	res := f.run(t, false)
	require.Equal(t, []string{"John Smith"}, res.Unmatched)
	require.Zero(t, res.Summary.TotalMatched)
}

func TestImport_CommitRaceBecomesCategoryConflict(t *testing.T) {
	ann := newStudent("Ann", "Lee", "S3")
	bob := newStudent("Bob", "Marley", "S2")
	f := newImportFixture(club.CategorySubject, []string{"Ann Lee", "Bob Marley"}, ann, bob)
	f.memberships.bulkErr = categoryConflictErr
	f.memberships.rowErr[ann.ID()] = categoryConflictErr

	res := f.run(t, false)

	require.Equal(t, 2, res.Summary.AvailableToAdd)
	require.Equal(t, 1, res.Summary.SuccessfullyAdded)
	require.Equal(t, 1, res.Summary.CategoryConflicts)
	require.Equal(t, ann.ID(), res.CategoryConflicts[0].StudentID)
}

func TestImport_OtherCommitFailureIsDropped(t *testing.T) {
	ann := newStudent("Ann", "Lee", "S3")
	f := newImportFixture(club.CategorySubject, []string{"Ann Lee"}, ann)
	f.memberships.bulkErr = errors.New("deadlock")
	f.memberships.rowErr[ann.ID()] = errors.New("deadlock")

	res := f.run(t, false)
	require.Equal(t, 1, res.Summary.AvailableToAdd)
	require.Zero(t, res.Summary.SuccessfullyAdded)
	require.Empty(t, res.Added)
	require.Empty(t, res.CategoryConflicts)
}

func TestImport_DryRunWritesNothing(t *testing.T) {
	f := newImportFixture(club.CategorySubject, []string{"John Smith"}, newStudent("John", "Smith", "S4"))

	res := f.run(t, true)

	require.True(t, res.DryRun)
	require.Equal(t, 1, res.Summary.AvailableToAdd)
	require.Zero(t, res.Summary.SuccessfullyAdded)
	require.Len(t, res.Added, 1)
	require.Zero(t, f.memberships.bulkCalls)
	require.Zero(t, f.memberships.activeCount(f.club.ID()))
}

func TestImport_PublishesCompletedEvent(t *testing.T) {
	f := newImportFixture(club.CategorySubject, []string{"John Smith", "Nobody Here"}, newStudent("John", "Smith", "S4"))

	res := f.run(t, false)

	require.Len(t, f.bus.events, 1)
	ev, ok := f.bus.events[0].(*events.ImportCompletedEvent)
	require.True(t, ok)
	require.Equal(t, f.club.ID(), ev.ClubID)
	require.Equal(t, res.Summary, ev.Summary)
}

func TestImport_InputErrors(t *testing.T) {
	f := newImportFixture(club.CategorySubject, []string{"John Smith"})

	_, err := f.svc.Import(context.Background(), services.ImportRequest{Document: extraction.Document{Path: "a"}})
	require.ErrorIs(t, err, services.ErrNoClub)

	_, err = f.svc.Import(context.Background(), services.ImportRequest{ClubID: f.club.ID()})
	require.ErrorIs(t, err, services.ErrNoFile)

	_, err = f.svc.Import(context.Background(), services.ImportRequest{ClubID: uuid.New(), Document: extraction.Document{Path: "a"}})
	require.ErrorIs(t, err, services.ErrClubNotFound)
	code, ok := serrors.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, services.CodeClubNotFound, code)

	require.Zero(t, f.extractor.calls)
	require.Empty(t, f.bus.events)
}

func TestImport_NoNamesIsDistinctFromUnmatched(t *testing.T) {
	f := newImportFixture(club.CategorySubject, []string{"  ", ""})

	_, err := f.svc.Import(context.Background(), services.ImportRequest{
		ClubID:   f.club.ID(),
		Document: extraction.Document{Path: "roster.txt"},
	})
	require.ErrorIs(t, err, services.ErrNoNames)
}

func TestImport_UpstreamFailuresAbortBeforeWrites(t *testing.T) {
	t.Run("extraction", func(t *testing.T) {
		f := newImportFixture(club.CategorySubject, nil)
		f.extractor.err = extraction.ErrUpstream
		_, err := f.svc.Import(context.Background(), services.ImportRequest{ClubID: f.club.ID(), Document: extraction.Document{Path: "a"}})
		require.ErrorIs(t, err, services.ErrExtraction)
		require.ErrorIs(t, err, extraction.ErrUpstream)
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newImportFixture(club.CategorySubject, nil)
		f.extractor.err = extraction.ErrUnsupportedType
		_, err := f.svc.Import(context.Background(), services.ImportRequest{ClubID: f.club.ID(), Document: extraction.Document{Path: "a"}})
		require.ErrorIs(t, err, services.ErrUnsupportedType)
	})

	t.Run("unreadable file", func(t *testing.T) {
		f := newImportFixture(club.CategorySubject, nil)
		f.extractor.err = fmt.Errorf("%w: zip: not a valid zip file", extraction.ErrUnreadable)
		_, err := f.svc.Import(context.Background(), services.ImportRequest{ClubID: f.club.ID(), Document: extraction.Document{Path: "a"}})
		require.ErrorIs(t, err, services.ErrUnreadable)
		require.NotErrorIs(t, err, services.ErrExtraction)
		require.Zero(t, f.memberships.bulkCalls)
	})

	t.Run("registry", func(t *testing.T) {
		f := newImportFixture(club.CategorySubject, []string{"John Smith"})
		f.students.err = errors.New("registry down")
		_, err := f.svc.Import(context.Background(), services.ImportRequest{ClubID: f.club.ID(), Document: extraction.Document{Path: "a"}})
		require.ErrorContains(t, err, "registry down")
		require.Zero(t, f.memberships.bulkCalls)
	})

	t.Run("memberships", func(t *testing.T) {
		f := newImportFixture(club.CategorySubject, []string{"John Smith"}, newStudent("John", "Smith", "S4"))
		f.memberships.listErr = errors.New("store down")
		_, err := f.svc.Import(context.Background(), services.ImportRequest{ClubID: f.club.ID(), Document: extraction.Document{Path: "a"}})
		require.ErrorContains(t, err, "store down")
		require.Zero(t, f.memberships.bulkCalls)
	})
}
