package domain

import "github.com/google/uuid"

// IDSet is an exclusion set of identifiers.
type IDSet map[string]struct{}

// Add records ids in the set.
func (s IDSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDGenerator produces identifiers that are not in a given exclusion set.
type IDGenerator interface {
	Generate(existing IDSet) string
}

// UUIDGenerator draws random UUIDs. NewID may be replaced in tests.
type UUIDGenerator struct {
	NewID func() string
}

// NewUUIDGenerator returns a generator backed by google/uuid.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{NewID: uuid.NewString}
}

// Generate returns an id absent from existing and adds it to the set,
// so consecutive calls over one set never collide.
func (g *UUIDGenerator) Generate(existing IDSet) string {
	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	for {
		id := newID()
		if !existing.Has(id) {
			existing.Add(id)
			return id
		}
	}
}

// DocumentIDs collects every category and question id of the given categories.
func DocumentIDs(categories ...[]Category) IDSet {
	set := make(IDSet)
	for _, cats := range categories {
		for _, c := range cats {
			set.Add(c.ID)
			for _, q := range c.Questions {
				set.Add(q.ID)
			}
		}
	}
	return set
}
