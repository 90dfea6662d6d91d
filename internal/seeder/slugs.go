package seeder

import (
	"errors"
	"fmt"
)

// MaxSlugAttempts bounds how many names are drawn for one row before giving up.
const MaxSlugAttempts = 100

var ErrSlugSpaceExhausted = errors.New("could not generate an unused slug")

// SlugSet records the slugs already handed out for one table.
type SlugSet struct {
	table string
	used  map[string]struct{}
}

func NewSlugSet(table string) *SlugSet {
	return &SlugSet{
		table: table,
		used:  make(map[string]struct{}),
	}
}

func (s *SlugSet) Has(slug string) bool {
	_, ok := s.used[slug]
	return ok
}

func (s *SlugSet) Len() int {
	return len(s.used)
}

// Unique draws names from next until one yields a slug not yet in the set,
// records that slug and returns the pair.
func (s *SlugSet) Unique(next func() string, slugify func(string) string) (name, slug string, err error) {
	for attempt := 0; attempt < MaxSlugAttempts; attempt++ {
		name = next()
		slug = slugify(name)
		if slug == "" || s.Has(slug) {
			continue
		}
		s.used[slug] = struct{}{}
		return name, slug, nil
	}
	return "", "", fmt.Errorf("%w for %s after %d attempts", ErrSlugSpaceExhausted, s.table, MaxSlugAttempts)
}
