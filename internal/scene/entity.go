package scene

import (
	"strconv"

	"github.com/san-kum/seqsim/internal/host"
)

// Entity packs a slot index and its generation: gen<<32 | index.
type Entity uint64

const indexBits = 32

func makeEntity(index, gen uint32) Entity {
	return Entity(uint64(gen)<<indexBits | uint64(index))
}

func (e Entity) index() uint32 { return uint32(e) }
func (e Entity) gen() uint32   { return uint32(uint64(e) >> indexBits) }

func (e Entity) Valid() bool { return e.index() > 0 }

func (e Entity) ID() host.EntityID { return host.EntityID(e) }

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// entityStore hands out indices, recycling destroyed ones under a new
// generation.
type entityStore struct {
	next uint32
	gens []uint32
	free []uint32
}

func (s *entityStore) create() Entity {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.next++
		idx = s.next
		s.gens = append(s.gens, 0)
	}
	return makeEntity(idx, s.gens[idx-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.alive(e) {
		return false
	}
	s.gens[e.index()-1]++
	s.free = append(s.free, e.index())
	return true
}

func (s *entityStore) alive(e Entity) bool {
	idx := e.index()
	return idx > 0 && int(idx) <= len(s.gens) && s.gens[idx-1] == e.gen()
}

// SparseSet stores one component type keyed by entity index.
type SparseSet[T any] struct {
	dense  []uint32
	values []T
	sparse []int
}

func (s *SparseSet[T]) Has(e Entity) bool {
	idx := int(e.index())
	if idx <= 0 || idx-1 >= len(s.sparse) {
		return false
	}
	d := s.sparse[idx-1]
	return d >= 0 && d < len(s.dense) && s.dense[d] == e.index()
}

// Get returns a pointer into the set, valid until the next Set or Remove.
func (s *SparseSet[T]) Get(e Entity) (*T, bool) {
	if !s.Has(e) {
		return nil, false
	}
	return &s.values[s.sparse[e.index()-1]], true
}

func (s *SparseSet[T]) Set(e Entity, v T) {
	idx := int(e.index())
	if idx <= 0 {
		return
	}
	for len(s.sparse) < idx {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(e) {
		s.values[s.sparse[idx-1]] = v
		return
	}
	s.dense = append(s.dense, e.index())
	s.values = append(s.values, v)
	s.sparse[idx-1] = len(s.dense) - 1
}

func (s *SparseSet[T]) Remove(e Entity) {
	if !s.Has(e) {
		return
	}
	d := s.sparse[e.index()-1]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[d] = moved
	s.values[d] = s.values[last]
	s.sparse[moved-1] = d

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[e.index()-1] = -1
}

func (s *SparseSet[T]) Len() int { return len(s.dense) }
