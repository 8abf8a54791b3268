package reconcile

import (
	"strings"

	"github.com/iota-uz/clubs/modules/clubs/domain/aggregates/student"
)

const (
	DefaultThreshold = 50

	exactFieldPoints   = 50
	partialFieldPoints = 25
	maxScore           = 100
)

// MatchResult ties an extracted name to the registry record it resolved to.
type MatchResult struct {
	Student       student.Student
	ExtractedName RawName
	Score         int
}

type indexedStudent struct {
	student student.Student
	first   string
	last    string
	full    string
}

// Snapshot is the eligible part of a registry with every record's name normalized once.
// Order follows the registry, which makes tie-breaking deterministic.
type Snapshot struct {
	entries []indexedStudent
}

func NewSnapshot(reg *student.Registry, eligible student.EligibilityFunc) *Snapshot {
	records := reg.Filter(eligible)
	entries := make([]indexedStudent, 0, len(records))
	for _, s := range records {
		entries = append(entries, indexedStudent{
			student: s,
			first:   NormalizedString(s.FirstName()),
			last:    NormalizedString(s.LastName()),
			full:    NormalizedString(s.FirstName() + " " + s.LastName()),
		})
	}
	return &Snapshot{entries: entries}
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

type Matcher struct {
	threshold int
}

// NewMatcher returns a matcher accepting scores of at least threshold. Non-positive values use DefaultThreshold.
func NewMatcher(threshold int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

func (m *Matcher) Threshold() int { return m.threshold }

// Resolve runs normalization, candidate generation and matching for one extracted name.
func (m *Matcher) Resolve(raw RawName, snap *Snapshot) (MatchResult, bool) {
	split, ok := GenerateCandidates(Normalize(raw.String()))
	if !ok {
		return MatchResult{}, false
	}
	s, score, ok := m.Match(split, snap)
	if !ok {
		return MatchResult{}, false
	}
	return MatchResult{Student: s, ExtractedName: raw, Score: score}, true
}

// Match returns the best-scoring record. A record replaces the current best only when its score is
// strictly higher and clears the threshold, so ties go to the record seen first.
func (m *Matcher) Match(split CandidateSplit, snap *Snapshot) (student.Student, int, bool) {
	if snap == nil {
		return student.Student{}, 0, false
	}
	var (
		best      student.Student
		bestScore int
		found     bool
	)
	for _, e := range snap.entries {
		score := scoreEntry(split, e)
		if score > bestScore && score >= m.threshold {
			best, bestScore, found = e.student, score, true
		}
	}
	return best, bestScore, found
}

// Score computes the match score of split against a single registry record.
func Score(split CandidateSplit, s student.Student) int {
	return scoreEntry(split, indexedStudent{
		student: s,
		first:   NormalizedString(s.FirstName()),
		last:    NormalizedString(s.LastName()),
		full:    NormalizedString(s.FirstName() + " " + s.LastName()),
	})
}

func scoreEntry(split CandidateSplit, e indexedStudent) int {
	if e.full != "" && split.FullName == e.full {
		return maxScore
	}
	score := fieldScore(split.FirstNames, e.first) + fieldScore(split.LastNames, e.last)
	if score > maxScore {
		score = maxScore
	}
	return score
}

// fieldScore awards 50 for the first exact hit and stops there; every substring hit before it adds 25.
func fieldScore(candidates []string, field string) int {
	if field == "" {
		return 0
	}
	score := 0
	for _, c := range candidates {
		if c == field {
			return score + exactFieldPoints
		}
		if strings.Contains(c, field) || strings.Contains(field, c) {
			score += partialFieldPoints
		}
	}
	return score
}
