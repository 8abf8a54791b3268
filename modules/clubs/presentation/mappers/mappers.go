package mappers

import (
	"strings"
	"time"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/membership"
	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
	"github.com/iota-uz/clubs/modules/clubs/presentation/viewmodels"
	"github.com/iota-uz/clubs/modules/clubs/services"
)

func ImportResultToViewModel(r *services.ImportResult) *viewmodels.ImportResult {
	s := r.Summary
	return &viewmodels.ImportResult{
		ClubID: r.ClubID.String(),
		DryRun: r.DryRun,
		Summary: viewmodels.ImportSummary{
			TotalExtracted:    s.TotalExtracted,
			TotalMatched:      s.TotalMatched,
			AvailableToAdd:    s.AvailableToAdd,
			SuccessfullyAdded: s.SuccessfullyAdded,
			AlreadyMembers:    s.AlreadyMembers,
			CategoryConflicts: s.CategoryConflicts,
			Unmatched:         s.Unmatched,
			Duplicates:        s.Duplicates,
		},
		Results: viewmodels.ImportResults{
			Added:             importEntries(r.Added),
			Conflicts:         importEntries(r.Conflicts),
			CategoryConflicts: importEntries(r.CategoryConflicts),
			Unmatched:         nonNil(r.Unmatched),
			Duplicates:        importEntries(r.Duplicates),
		},
	}
}

// importEntries never returns nil so empty buckets encode as [] rather than null.
func importEntries(entries []services.ImportEntry) []viewmodels.ImportEntry {
	out := make([]viewmodels.ImportEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, viewmodels.ImportEntry{
			StudentID:     e.StudentID.String(),
			Name:          e.Name,
			ExtractedName: e.ExtractedName,
			MatchScore:    e.MatchScore,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func MemberToViewModel(m membership.Member) viewmodels.Member {
	return viewmodels.Member{
		ID:        m.ID().String(),
		StudentID: m.StudentID().String(),
		FirstName: m.FirstName,
		LastName:  m.LastName,
		FullName:  strings.TrimSpace(m.FirstName + " " + m.LastName),
		Grade:     m.Grade,
		Status:    string(m.Status()),
		JoinedAt:  m.JoinedAt().UTC().Format(time.RFC3339),
		LeftAt:    formatTimePtr(m.LeftAt()),
	}
}

func MembersToViewModel(members []membership.Member, total int64) *viewmodels.MemberList {
	out := make([]viewmodels.Member, 0, len(members))
	for _, m := range members {
		out = append(out, MemberToViewModel(m))
	}
	return &viewmodels.MemberList{Members: out, Total: total}
}

func MembershipToViewModel(m membership.Membership) viewmodels.Membership {
	return viewmodels.Membership{
		ID:        m.ID().String(),
		ClubID:    m.ClubID().String(),
		StudentID: m.StudentID().String(),
		Status:    string(m.Status()),
		JoinedAt:  m.JoinedAt().UTC().Format(time.RFC3339),
		LeftAt:    formatTimePtr(m.LeftAt()),
	}
}

func StudentToViewModel(s student.Student) viewmodels.Student {
	return viewmodels.Student{
		ID:          s.ID().String(),
		FirstName:   s.FirstName(),
		LastName:    s.LastName(),
		FullName:    s.FullName(),
		Grade:       s.Grade(),
		Combination: s.Combination(),
	}
}

func StudentsToViewModel(students []student.Student) []viewmodels.Student {
	out := make([]viewmodels.Student, 0, len(students))
	for _, s := range students {
		out = append(out, StudentToViewModel(s))
	}
	return out
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}
