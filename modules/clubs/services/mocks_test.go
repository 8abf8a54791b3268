package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
	"github.com/iota-uz/clubs/modules/clubs/domain/reconcile"
	"github.com/iota-uz/clubs/modules/clubs/infrastructure/extraction"
)

type mockStudentRepo struct {
	records []student.Student
	err     error
}

func (m *mockStudentRepo) ListAll(context.Context) ([]student.Student, error) {
	return m.records, m.err
}

func (m *mockStudentRepo) GetByID(_ context.Context, id uuid.UUID) (student.Student, error) {
	for _, s := range m.records {
		if s.ID() == id {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

type mockClubRepo struct {
	clubs map[uuid.UUID]club.Club
}

func newMockClubRepo(clubs ...club.Club) *mockClubRepo {
	m := &mockClubRepo{clubs: map[uuid.UUID]club.Club{}}
	for _, c := range clubs {
		m.clubs[c.ID()] = c
	}
	return m
}

func (m *mockClubRepo) GetByID(_ context.Context, id uuid.UUID) (club.Club, error) {
	c, ok := m.clubs[id]
	if !ok {
		return club.Club{}, club.ErrNotFound
	}
	return c, nil
}

type mockMembershipRepo struct {
	mu      sync.Mutex
	clubs   *mockClubRepo
	rows    []membership.Membership
	listErr error
	bulkErr error

	// rowErr is consulted by InsertOne before the in-memory constraints.
	rowErr      map[uuid.UUID]error
	bulkCalls   int
	insertCalls int
}

func newMockMembershipRepo(clubs *mockClubRepo) *mockMembershipRepo {
	return &mockMembershipRepo{clubs: clubs, rowErr: map[uuid.UUID]error{}}
}

func (m *mockMembershipRepo) seed(clubID, studentID uuid.UUID) {
	m.rows = append(m.rows, membership.Hydrate(uuid.New(), clubID, studentID, membership.StatusActive, time.Now(), nil))
}

func (m *mockMembershipRepo) ListActiveForStudents(_ context.Context, ids []uuid.UUID) ([]membership.ActiveMembership, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []membership.ActiveMembership
	for _, r := range m.rows {
		if _, ok := want[r.StudentID()]; !ok || !r.IsActive() {
			continue
		}
		out = append(out, membership.ActiveMembership{
			StudentID: r.StudentID(),
			ClubID:    r.ClubID(),
			Category:  m.clubs.clubs[r.ClubID()].Category(),
		})
	}
	return out, nil
}

func (m *mockMembershipRepo) BulkInsert(_ context.Context, intents []membership.Intent) ([]membership.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bulkCalls++
	if m.bulkErr != nil {
		return nil, m.bulkErr
	}
	var inserted []membership.Intent
	for _, in := range intents {
		if m.activeLocked(in.ClubID, in.StudentID) {
			continue
		}
		m.rows = append(m.rows, membership.Hydrate(uuid.New(), in.ClubID, in.StudentID, membership.StatusActive, time.Now(), nil))
		inserted = append(inserted, in)
	}
	return inserted, nil
}

func (m *mockMembershipRepo) InsertOne(_ context.Context, in membership.Intent) (membership.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if err, ok := m.rowErr[in.StudentID]; ok {
		return membership.Membership{}, err
	}
	if m.activeLocked(in.ClubID, in.StudentID) {
		return membership.Membership{}, alreadyMemberErr
	}
	row := membership.Hydrate(uuid.New(), in.ClubID, in.StudentID, membership.StatusActive, time.Now(), nil)
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *mockMembershipRepo) MarkLeft(_ context.Context, clubID, studentID uuid.UUID, at time.Time) (membership.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ClubID() == clubID && r.StudentID() == studentID && r.IsActive() {
			left := membership.Hydrate(r.ID(), clubID, studentID, membership.StatusLeft, r.JoinedAt(), &at)
			m.rows[i] = left
			return left, nil
		}
	}
	return membership.Membership{}, membership.ErrNotFound
}

func (m *mockMembershipRepo) ListByClub(_ context.Context, clubID uuid.UUID, params *membership.FindParams) ([]membership.Member, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []membership.Member
	for _, r := range m.rows {
		if r.ClubID() == clubID && (params.Status == "" || r.Status() == params.Status) {
			out = append(out, membership.Member{Membership: r})
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockMembershipRepo) activeLocked(clubID, studentID uuid.UUID) bool {
	for _, r := range m.rows {
		if r.ClubID() == clubID && r.StudentID() == studentID && r.IsActive() {
			return true
		}
	}
	return false
}

func (m *mockMembershipRepo) activeCount(clubID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.ClubID() == clubID && r.IsActive() {
			n++
		}
	}
	return n
}

var (
	alreadyMemberErr    = fmt.Errorf("%w: %w", membership.ErrConstraintViolation, membership.ErrAlreadyMember)
	categoryConflictErr = fmt.Errorf("%w: %w", membership.ErrConstraintViolation, membership.ErrCategoryConflict)
)

type staticExtractor struct {
	names []string
	err   error
	calls int
}

func (e *staticExtractor) Extract(context.Context, extraction.Document) ([]reconcile.RawName, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return reconcile.RawNames(e.names), nil
}

type recordingBus struct {
	events []interface{}
}

func (b *recordingBus) Publish(args ...interface{}) { b.events = append(b.events, args...) }
func (b *recordingBus) Subscribe(interface{})       {}
func (b *recordingBus) Unsubscribe(interface{})     {}
func (b *recordingBus) Clear()                      {}
func (b *recordingBus) SubscribersCount() int       { return 0 }
