package wishlist

import "sort"

// Set is the saved product ids as of the last successful read.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in a stable order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type Ack struct {
	Message string
}
