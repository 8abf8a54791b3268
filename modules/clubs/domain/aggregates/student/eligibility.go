package student

import "strings"

// EligibilityFunc decides whether a registry record may be targeted by an import.
type EligibilityFunc func(Student) bool

func AllEligible(Student) bool { return true }

// ExcludeGrades rejects students whose grade equals one of grades, ignoring case and surrounding space.
func ExcludeGrades(grades ...string) EligibilityFunc {
	excluded := make(map[string]struct{}, len(grades))
	for _, g := range grades {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			excluded[g] = struct{}{}
		}
	}
	if len(excluded) == 0 {
		return AllEligible
	}
	return func(s Student) bool {
		_, skip := excluded[strings.ToLower(strings.TrimSpace(s.Grade()))]
		return !skip
	}
}
