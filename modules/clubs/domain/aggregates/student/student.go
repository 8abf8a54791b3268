package student

import (
	"strings"

	"github.com/google/uuid"
)

// Student is a read-only projection of a registry record. The import engine never mutates it.
type Student struct {
	id          uuid.UUID
	firstName   string
	lastName    string
	grade       string
	combination string
	gender      string
}

func Hydrate(
	id uuid.UUID,
	firstName string,
	lastName string,
	grade string,
	combination string,
	gender string,
) Student {
	return Student{
		id:          id,
		firstName:   strings.TrimSpace(firstName),
		lastName:    strings.TrimSpace(lastName),
		grade:       strings.TrimSpace(grade),
		combination: strings.TrimSpace(combination),
		gender:      strings.TrimSpace(gender),
	}
}

func (s Student) ID() uuid.UUID       { return s.id }
func (s Student) FirstName() string   { return s.firstName }
func (s Student) LastName() string    { return s.lastName }
func (s Student) Grade() string       { return s.grade }
func (s Student) Combination() string { return s.combination }
func (s Student) Gender() string      { return s.gender }
func (s Student) IsZero() bool        { return s.id == uuid.Nil }
func (s Student) FullName() string    { return strings.TrimSpace(s.firstName + " " + s.lastName) }
