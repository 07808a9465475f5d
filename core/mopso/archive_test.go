package mopso

import (
	"math/rand"
	"testing"

	"github.com/nroussel/airdispatch/core/model"
)

func TestDominates(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want bool
	}{
		{"strictly better", []float64{2, 2, 2}, []float64{1, 1, 1}, true},
		{"better in one", []float64{1, 2, 1}, []float64{1, 1, 1}, true},
		{"equal", []float64{1, 1, 1}, []float64{1, 1, 1}, false},
		{"worse in one", []float64{2, 0, 2}, []float64{1, 1, 1}, false},
		{"length mismatch", []float64{1, 1}, []float64{1, 1, 1}, false},
	}
	for _, c := range cases {
		if got := Dominates(c.a, c.b); got != c.want {
			t.Errorf("%s: Dominates(%v,%v)=%v", c.name, c.a, c.b, got)
		}
	}
}

func TestDominatesAsymmetric(t *testing.T) {
	a := []float64{2, 1, 1}
	b := []float64{1, 2, 1}
	if Dominates(a, b) || Dominates(b, a) {
		t.Fatalf("incomparable vectors must not dominate each other")
	}
}

func TestArchiveRejectsDominated(t *testing.T) {
	ar := NewArchive(10)
	if !ar.Add([]float64{2, 2, 2}, nil, model.Assignment{}) {
		t.Fatalf("first insert should succeed")
	}
	if ar.Add([]float64{1, 1, 1}, nil, model.Assignment{}) {
		t.Fatalf("dominated insert should be rejected")
	}
	if ar.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", ar.Len())
	}
}

func TestArchiveEvictsDominated(t *testing.T) {
	ar := NewArchive(10)
	ar.Add([]float64{1, 1, 1}, nil, model.Assignment{})
	ar.Add([]float64{1, 2, 1}, nil, model.Assignment{})
	if !ar.Add([]float64{3, 3, 3}, nil, model.Assignment{}) {
		t.Fatalf("dominating insert should succeed")
	}
	if ar.Len() != 1 {
		t.Fatalf("dominated members should be evicted, got %d", ar.Len())
	}
}

func TestArchiveTruncationBound(t *testing.T) {
	ar := NewArchive(5)
	// mutually non-dominated members along a diagonal
	for i := 0; i < 20; i++ {
		f := []float64{float64(i), float64(20 - i), 1}
		ar.Add(f, nil, model.Assignment{})
	}
	if ar.Len() > 5 {
		t.Fatalf("archive exceeded bound: %d", ar.Len())
	}
}

func TestArchiveTruncationKeepsSpread(t *testing.T) {
	ar := NewArchive(3)
	ar.Add([]float64{0, 10, 1}, nil, model.Assignment{})
	ar.Add([]float64{10, 0, 1}, nil, model.Assignment{})
	ar.Add([]float64{5, 5, 1}, nil, model.Assignment{})
	// crowded near an existing member; truncation should drop from the
	// crowded region, leaving the extremes alone
	ar.Add([]float64{5.1, 4.9, 1}, nil, model.Assignment{})
	found := map[float64]bool{}
	for _, e := range ar.Entries() {
		found[e.Fitness[0]] = true
	}
	if !found[0] || !found[10] {
		t.Fatalf("extreme members should survive truncation: %v", ar.Entries())
	}
}

func TestSelectBestWeighted(t *testing.T) {
	ar := NewArchive(10)
	ar.Add([]float64{1, 0, 0}, nil, model.Assignment{1: {1}})
	ar.Add([]float64{0, 1, 0}, nil, model.Assignment{2: {1}})
	best, ok := ar.SelectBest([]float64{0.9, 0.1, 0})
	if !ok {
		t.Fatalf("expected a best entry")
	}
	if best.Fitness[0] != 1 {
		t.Fatalf("weights should favor the first objective: %v", best.Fitness)
	}
}

func TestSelectBestTieKeepsEarliest(t *testing.T) {
	ar := NewArchive(10)
	ar.Add([]float64{1, 0, 0}, nil, model.Assignment{1: {1}})
	ar.Add([]float64{0, 1, 0}, nil, model.Assignment{2: {1}})
	best, ok := ar.SelectBest([]float64{0.5, 0.5, 0})
	if !ok {
		t.Fatalf("expected a best entry")
	}
	if _, isFirst := best.Assignment[1]; !isFirst {
		t.Fatalf("tie should keep the earliest insertion: %v", best.Assignment)
	}
}

func TestSelectLeaderEmpty(t *testing.T) {
	ar := NewArchive(10)
	if _, ok := ar.SelectLeader(rand.New(rand.NewSource(1))); ok {
		t.Fatalf("empty archive must not yield a leader")
	}
	if _, ok := ar.SelectBest([]float64{1, 1, 1}); ok {
		t.Fatalf("empty archive must not yield a best entry")
	}
}

func TestSelectLeaderDeterministic(t *testing.T) {
	build := func() *Archive {
		ar := NewArchive(10)
		for i := 0; i < 5; i++ {
			ar.Add([]float64{float64(i), float64(5 - i), 1}, nil, model.Assignment{i: {i}})
		}
		return ar
	}
	a, b := build(), build()
	ra, rb := rand.New(rand.NewSource(7)), rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		ea, _ := a.SelectLeader(ra)
		eb, _ := b.SelectLeader(rb)
		if ea.Fitness[0] != eb.Fitness[0] {
			t.Fatalf("leader draw diverged at %d", i)
		}
	}
}
