package mopso

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/nroussel/airdispatch/core/model"
)

// Entry pairs a non-dominated fitness vector with the particle position that
// produced it and the assignment it decodes to.
type Entry struct {
	Fitness    []float64
	Position   []float64
	Assignment model.Assignment
	seq        int
}

// Archive is a bounded store of non-dominated solutions. It is not safe for
// concurrent use; the optimizer serializes all mutations.
type Archive struct {
	entries []Entry
	maxSize int
	seq     int
}

// NewArchive creates an archive bounded to maxSize entries.
func NewArchive(maxSize int) *Archive {
	return &Archive{maxSize: maxSize}
}

// Dominates reports whether a dominates b for maximization: a is greater or
// equal in every objective and strictly greater in at least one. It is
// irreflexive and asymmetric.
func Dominates(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	strict := false
	for i := range a {
		if a[i] < b[i] {
			return false
		}
		if a[i] > b[i] {
			strict = true
		}
	}
	return strict
}

// Add inserts the solution unless it is dominated by an existing member and
// removes every member the new entry dominates. It returns true if the
// solution entered the archive. The archive is truncated back to its bound
// after insertion.
func (ar *Archive) Add(fitness []float64, position []float64, asn model.Assignment) bool {
	for _, e := range ar.entries {
		if Dominates(e.Fitness, fitness) {
			return false
		}
	}
	kept := ar.entries[:0]
	for _, e := range ar.entries {
		if !Dominates(fitness, e.Fitness) {
			kept = append(kept, e)
		}
	}
	ar.entries = kept
	ar.entries = append(ar.entries, Entry{Fitness: fitness, Position: position, Assignment: asn, seq: ar.seq})
	ar.seq++
	if ar.maxSize > 0 {
		ar.Truncate(ar.maxSize)
	}
	return true
}

// Truncate drops the least diverse members, measured by nearest-neighbour
// distance in objective space, until the archive fits maxSize. Ties evict
// the later insertion so earlier members survive deterministically.
func (ar *Archive) Truncate(maxSize int) {
	for len(ar.entries) > maxSize {
		victim := 0
		victimDist := math.Inf(1)
		for i, e := range ar.entries {
			d := ar.nearestNeighbour(i, e)
			if d < victimDist || (d == victimDist && e.seq > ar.entries[victim].seq) {
				victim = i
				victimDist = d
			}
		}
		ar.entries = append(ar.entries[:victim], ar.entries[victim+1:]...)
	}
}

func (ar *Archive) nearestNeighbour(idx int, e Entry) float64 {
	nearest := math.Inf(1)
	for j, other := range ar.entries {
		if j == idx {
			continue
		}
		if d := floats.Distance(e.Fitness, other.Fitness, 2); d < nearest {
			nearest = d
		}
	}
	return nearest
}

// Len returns the number of archived solutions.
func (ar *Archive) Len() int { return len(ar.entries) }

// Entries returns a copy of the archive contents.
func (ar *Archive) Entries() []Entry {
	return append([]Entry(nil), ar.entries...)
}

// SelectLeader draws a uniform member from the archive. The second return
// value is false when the archive is empty; that is a normal condition, not
// an error.
func (ar *Archive) SelectLeader(rng *rand.Rand) (Entry, bool) {
	if len(ar.entries) == 0 {
		return Entry{}, false
	}
	return ar.entries[rng.Intn(len(ar.entries))], true
}

// SelectBest returns the member maximizing the weighted-sum scalarization of
// its fitness. Ties keep the earliest insertion.
func (ar *Archive) SelectBest(weights []float64) (Entry, bool) {
	if len(ar.entries) == 0 {
		return Entry{}, false
	}
	best := 0
	bestScore := math.Inf(-1)
	for i, e := range ar.entries {
		score := floats.Dot(weights, e.Fitness)
		if score > bestScore || (score == bestScore && e.seq < ar.entries[best].seq) {
			best = i
			bestScore = score
		}
	}
	return ar.entries[best], true
}
