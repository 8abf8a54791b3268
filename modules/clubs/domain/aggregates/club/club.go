package club

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category caps how many clubs of one kind a student may join.
type Category string

const (
	CategorySubject    Category = "subject"
	CategorySoftSkills Category = "soft_skills"
)

func (c Category) IsValid() bool {
	return c == CategorySubject || c == CategorySoftSkills
}

func ParseCategory(v string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(v)))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

type Club struct {
	id        uuid.UUID
	name      string
	category  Category
	createdAt time.Time
}

func Hydrate(id uuid.UUID, name string, category Category, createdAt time.Time) Club {
	return Club{
		id:        id,
		name:      strings.TrimSpace(name),
		category:  category,
		createdAt: createdAt,
	}
}

func (c Club) ID() uuid.UUID        { return c.id }
func (c Club) Name() string         { return c.name }
func (c Club) Category() Category   { return c.category }
func (c Club) CreatedAt() time.Time { return c.createdAt }
