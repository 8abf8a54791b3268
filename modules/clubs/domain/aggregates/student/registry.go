package student

// Registry is an immutable snapshot of the student table taken once per import run.
type Registry struct {
	records []Student
}

func NewRegistry(records []Student) *Registry {
	copied := make([]Student, len(records))
	copy(copied, records)
	return &Registry{records: copied}
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.records)
}

// Each calls fn for every record in snapshot order until fn returns false.
func (r *Registry) Each(fn func(Student) bool) {
	if r == nil {
		return
	}
	for _, s := range r.records {
		if !fn(s) {
			return
		}
	}
}

// Filter returns the records accepted by eligible, preserving snapshot order.
func (r *Registry) Filter(eligible EligibilityFunc) []Student {
	if eligible == nil {
		eligible = AllEligible
	}
	out := make([]Student, 0, r.Len())
	r.Each(func(s Student) bool {
		if eligible(s) {
			out = append(out, s)
		}
		return true
	})
	return out
}
