package controllers_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/club"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
)

type memStudents struct {
	records []student.Student
}

func (m *memStudents) ListAll(context.Context) ([]student.Student, error) {
	return m.records, nil
}

func (m *memStudents) GetByID(_ context.Context, id uuid.UUID) (student.Student, error) {
	for _, s := range m.records {
		if s.ID() == id {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

type memClubs map[uuid.UUID]club.Club

func (m memClubs) GetByID(_ context.Context, id uuid.UUID) (club.Club, error) {
	c, ok := m[id]
	if !ok {
		return club.Club{}, club.ErrNotFound
	}
	return c, nil
}

// memMemberships enforces only the one-active-row-per-pair rule; category limits are left to the services.
type memMemberships struct {
	mu       sync.Mutex
	clubs    memClubs
	students *memStudents
	rows     []membership.Membership
}

func (m *memMemberships) active(clubID, studentID uuid.UUID) int {
	for i, row := range m.rows {
		if row.IsActive() && row.ClubID() == clubID && row.StudentID() == studentID {
			return i
		}
	}
	return -1
}

func (m *memMemberships) ListActiveForStudents(_ context.Context, ids []uuid.UUID) ([]membership.ActiveMembership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[uuid.UUID]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var out []membership.ActiveMembership
	for _, row := range m.rows {
		if !row.IsActive() || !wanted[row.StudentID()] {
			continue
		}
		out = append(out, membership.ActiveMembership{
			StudentID: row.StudentID(),
			ClubID:    row.ClubID(),
			Category:  m.clubs[row.ClubID()].Category(),
		})
	}
	return out, nil
}

func (m *memMemberships) BulkInsert(_ context.Context, intents []membership.Intent) ([]membership.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := make([]membership.Intent, 0, len(intents))
	for _, in := range intents {
		if m.active(in.ClubID, in.StudentID) >= 0 {
			continue
		}
		m.rows = append(m.rows, membership.Hydrate(uuid.New(), in.ClubID, in.StudentID, membership.StatusActive, time.Now(), nil))
		inserted = append(inserted, in)
	}
	return inserted, nil
}

func (m *memMemberships) InsertOne(_ context.Context, in membership.Intent) (membership.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active(in.ClubID, in.StudentID) >= 0 {
		return membership.Membership{}, membership.ErrAlreadyMember
	}
	row := membership.Hydrate(uuid.New(), in.ClubID, in.StudentID, membership.StatusActive, time.Now(), nil)
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memMemberships) MarkLeft(_ context.Context, clubID, studentID uuid.UUID, at time.Time) (membership.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.active(clubID, studentID)
	if i < 0 {
		return membership.Membership{}, membership.ErrNotFound
	}
	row := m.rows[i]
	m.rows[i] = membership.Hydrate(row.ID(), clubID, studentID, membership.StatusLeft, row.JoinedAt(), &at)
	return m.rows[i], nil
}

func (m *memMemberships) ListByClub(_ context.Context, clubID uuid.UUID, params *membership.FindParams) ([]membership.Member, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []membership.Member
	for _, row := range m.rows {
		if row.ClubID() != clubID || (params.Status != "" && row.Status() != params.Status) {
			continue
		}
		s, _ := m.students.GetByID(context.Background(), row.StudentID())
		out = append(out, membership.Member{
			Membership: row,
			FirstName:  s.FirstName(),
			LastName:   s.LastName(),
			Grade:      s.Grade(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, int64(len(out)), nil
}

func (m *memMemberships) activeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.rows {
		if row.IsActive() {
			n++
		}
	}
	return n
}
