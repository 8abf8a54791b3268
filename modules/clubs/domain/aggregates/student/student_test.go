package student

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestExcludeGrades(t *testing.T) {
	eligible := ExcludeGrades(" s6 ", "")

	require.False(t, eligible(Hydrate(uuid.New(), "A", "B", "S6", "", "")))
	require.True(t, eligible(Hydrate(uuid.New(), "A", "B", "S5", "", "")))
	require.True(t, ExcludeGrades()(Hydrate(uuid.New(), "A", "B", "S6", "", "")))
}

func TestExcludeGrades_TrimsRegistryGrade(t *testing.T) {
	eligible := ExcludeGrades("S6")

	require.False(t, eligible(Hydrate(uuid.New(), "A", "B", " s6 ", "", "")))
	require.False(t, eligible(Hydrate(uuid.New(), "A", "B", "S6\t", "", "")))
}

func TestRegistry_IsASnapshot(t *testing.T) {
	records := []Student{
		Hydrate(uuid.New(), "John", "Smith", "S4", "PCM", "M"),
		Hydrate(uuid.New(), "Jane", "Doe", "S6", "HEG", "F"),
	}
	reg := NewRegistry(records)
	records[0] = Hydrate(uuid.New(), "Changed", "Later", "S1", "", "")

	var names []string
	reg.Each(func(s Student) bool {
		names = append(names, s.FullName())
		return true
	})
	require.Equal(t, []string{"John Smith", "Jane Doe"}, names)

	filtered := reg.Filter(ExcludeGrades("S6"))
	require.Len(t, filtered, 1)
	require.Equal(t, "John", filtered[0].FirstName())
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var reg *Registry
	require.Equal(t, 0, reg.Len())
	require.Empty(t, reg.Filter(nil))
}
