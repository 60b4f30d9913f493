package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Source is the randomness the games draw from. Implementations must be
// safe for concurrent use.
type Source interface {
	Float64() float64
	IntN(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// NewSeededSource returns a deterministic source for reproducible runs.
func NewSeededSource(seed uint64) Source {
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewSource returns a source seeded from crypto/rand.
func NewSource() Source {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return &lockedSource{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &lockedSource{rnd: rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(b[:8]),
		binary.LittleEndian.Uint64(b[8:]),
	))}
}
