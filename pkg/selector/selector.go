// SPDX-License-Identifier: AGPL-3.0-or-later

// Package selector implements the four quote selection policies over a
// corpus of known size. The selector is a tagged union over four
// variants with per-variant fields — deliberately not a class
// hierarchy or dispatch table, since the set of modes is closed and an
// exhaustive switch is clearer.
package selector

import (
	"math/rand/v2"
)

// Mode names one of the four selection policies.
type Mode string

const (
	ModeRandom         Mode = "random"
	ModeSequential     Mode = "sequential"
	ModeRandomNoRepeat Mode = "random-no-repeat"
	ModeShuffleCycle   Mode = "shuffle-cycle"
)

// Selector produces the next index into a corpus of a given size,
// according to its fixed Mode. It is not safe for concurrent use: the
// supervisor is its sole owner and mutator.
type Selector struct {
	mode Mode
	size int
	rng  *rand.Rand

	// sequential
	position int

	// random-no-repeat
	exhausted map[int]struct{}

	// shuffle-cycle
	order    []int
	cyclePos int
}

// New constructs a Selector for mode over a corpus of size elements.
func New(mode Mode, size int) *Selector {
	s := &Selector{
		mode: mode,
		rng:  newRNG(),
	}
	s.Reset(size)
	return s
}

// newRNG seeds a PRNG from a high-entropy, non-cryptographic source.
// The design is not security-sensitive, so wall-clock entropy is
// sufficient per the spec.
func newRNG() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Mode returns the selector's fixed policy; it never changes.
func (s *Selector) Mode() Mode {
	return s.mode
}

// Reset prepares the selector to serve a (possibly differently sized)
// corpus. The mode never changes; reset semantics are per-mode:
//   - random: no visible effect beyond adopting the new size.
//   - sequential: position restarts at 0.
//   - random-no-repeat: the exhausted set is cleared.
//   - shuffle-cycle: a fresh permutation is drawn and position resets to 0.
func (s *Selector) Reset(size int) {
	s.size = size
	switch s.mode {
	case ModeSequential:
		s.position = 0
	case ModeRandomNoRepeat:
		s.exhausted = make(map[int]struct{}, size)
	case ModeShuffleCycle:
		s.order = shuffledIndices(s.rng, size)
		s.cyclePos = 0
	}
}

// Next returns the next index in [0, size), or ok=false if size == 0.
func (s *Selector) Next() (index int, ok bool) {
	if s.size == 0 {
		return 0, false
	}
	switch s.mode {
	case ModeSequential:
		return s.nextSequential(), true
	case ModeRandomNoRepeat:
		return s.nextRandomNoRepeat(), true
	case ModeShuffleCycle:
		return s.nextShuffleCycle(), true
	default:
		return s.rng.IntN(s.size), true
	}
}

func (s *Selector) nextSequential() int {
	i := s.position
	s.position = (s.position + 1) % s.size
	return i
}

func (s *Selector) nextRandomNoRepeat() int {
	if len(s.exhausted) >= s.size {
		s.exhausted = make(map[int]struct{}, s.size)
	}
	for {
		i := s.rng.IntN(s.size)
		if _, used := s.exhausted[i]; used {
			continue
		}
		s.exhausted[i] = struct{}{}
		return i
	}
}

func (s *Selector) nextShuffleCycle() int {
	if s.cyclePos == len(s.order) {
		s.order = shuffledIndices(s.rng, s.size)
		s.cyclePos = 0
	}
	i := s.order[s.cyclePos]
	s.cyclePos++
	return i
}

// shuffledIndices returns a fresh Fisher-Yates permutation of [0, n).
func shuffledIndices(rng *rand.Rand, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}
