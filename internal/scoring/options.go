package scoring

import (
	"sort"

	"github.com/google/uuid"
)

// Option adjusts a scoring run
type Option func(*options)

type options struct {
	participants []uuid.UUID
}

// WithParticipants adds users who are enrolled in the context even if they
// submitted nothing. Such users are scored for every slot they skipped.
func WithParticipants(users ...uuid.UUID) Option {
	return func(o *options) {
		o.participants = append(o.participants, users...)
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// userSet keeps users in a deterministic order regardless of input order
type userSet struct {
	seen  map[uuid.UUID]struct{}
	order []uuid.UUID
}

func (s *userSet) add(id uuid.UUID) {
	if s.seen == nil {
		s.seen = make(map[uuid.UUID]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *userSet) sorted() []uuid.UUID {
	out := make([]uuid.UUID, len(s.order))
	copy(out, s.order)
	sortUsers(out)
	return out
}

func sortUsers(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}
