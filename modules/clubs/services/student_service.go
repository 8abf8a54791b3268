package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
)

const defaultSearchLimit = 20

type StudentService struct {
	repo     student.Repository
	eligible student.EligibilityFunc
}

func NewStudentService(repo student.Repository, excludedGrades []string) *StudentService {
	return &StudentService{repo: repo, eligible: student.ExcludeGrades(excludedGrades...)}
}

// Search ranks eligible students by how closely their display name fuzzy-matches q.
// An empty query lists students in registry order.
func (s *StudentService) Search(ctx context.Context, q string, limit int) ([]student.Student, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load student registry: %w", err)
	}
	candidates := student.NewRegistry(records).Filter(s.eligible)

	q = strings.TrimSpace(q)
	if q == "" {
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		return candidates, nil
	}

	words := make([]string, len(candidates))
	for i, c := range candidates {
		words[i] = c.FullName()
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	out := make([]student.Student, 0, min(limit, len(ranks)))
	for _, rank := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, candidates[rank.OriginalIndex])
	}
	return out, nil
}
