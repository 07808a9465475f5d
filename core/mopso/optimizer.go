package mopso

import (
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/nroussel/airdispatch/core/model"
)

// Problem bundles the inputs of one dispatch cycle.
type Problem struct {
	Tick        int
	Orders      []model.OrderSnapshot
	Agents      []model.AgentSnapshot
	Merchants   map[int]model.Location
	Constraints model.RouteConstraints
	Weights     []float64
}

// Optimizer runs a multi-objective particle swarm over assignment encodings.
// Each particle position holds one value per order in [0, len(agents)];
// the integer part selects the agent, values at or beyond len(agents) leave
// the order unassigned.
type Optimizer struct {
	Particles   int
	Iterations  int
	ArchiveSize int
	Inertia     float64
	Cognitive   float64
	Social      float64
	// Workers bounds the parallel fitness evaluations per iteration.
	// Values below one evaluate sequentially.
	Workers int
}

// NewOptimizer returns an optimizer with sensible default parameters.
func NewOptimizer() Optimizer {
	return Optimizer{
		Particles:   30,
		Iterations:  10,
		ArchiveSize: 50,
		Inertia:     0.7,
		Cognitive:   1.5,
		Social:      1.5,
		Workers:     4,
	}
}

type particle struct {
	position []float64
	velocity []float64
	best     []float64
	bestFit  []float64
	fitness  []float64
	decoded  model.Assignment
}

// Run searches for an order-to-agent assignment for the problem. The rng is
// the only source of randomness, so identical seeds and inputs produce
// identical assignments. An empty problem or an empty final archive yields
// an empty assignment, never an error.
func (o Optimizer) Run(p Problem, rng *rand.Rand) model.Assignment {
	if len(p.Orders) == 0 || len(p.Agents) == 0 {
		return model.Assignment{}
	}
	if len(p.Weights) != NumObjectives {
		p.Weights = equalWeights()
	}

	dim := len(p.Orders)
	upper := float64(len(p.Agents))
	archive := NewArchive(o.ArchiveSize)

	parts := make([]particle, o.Particles)
	for i := range parts {
		pos := make([]float64, dim)
		vel := make([]float64, dim)
		for d := 0; d < dim; d++ {
			pos[d] = rng.Float64() * upper
			vel[d] = (rng.Float64()*2 - 1)
		}
		parts[i] = particle{position: pos, velocity: vel}
	}

	o.evaluateAll(p, parts)
	for i := range parts {
		parts[i].best = append([]float64(nil), parts[i].position...)
		parts[i].bestFit = parts[i].fitness
		archive.Add(parts[i].fitness, parts[i].position, parts[i].decoded)
	}

	for it := 0; it < o.Iterations; it++ {
		for i := range parts {
			leader, ok := archive.SelectLeader(rng)
			target := parts[i].best
			if ok {
				target = leader.Position
			}
			o.move(&parts[i], target, upper, rng)
		}
		o.evaluateAll(p, parts)
		for i := range parts {
			pt := &parts[i]
			if betterPersonal(pt.fitness, pt.bestFit, p.Weights) {
				pt.best = append([]float64(nil), pt.position...)
				pt.bestFit = pt.fitness
			}
			archive.Add(pt.fitness, pt.position, pt.decoded)
		}
	}

	best, ok := archive.SelectBest(p.Weights)
	if !ok {
		return model.Assignment{}
	}
	return best.Assignment
}

// move applies the velocity update with inertia, cognitive pull toward the
// personal best and social pull toward the leader, then clamps the position
// to the valid encoding range.
func (o Optimizer) move(pt *particle, leader []float64, upper float64, rng *rand.Rand) {
	for d := range pt.position {
		r1 := rng.Float64()
		r2 := rng.Float64()
		pt.velocity[d] = o.Inertia*pt.velocity[d] +
			o.Cognitive*r1*(pt.best[d]-pt.position[d]) +
			o.Social*r2*(leader[d]-pt.position[d])
		pt.position[d] += pt.velocity[d]
		if pt.position[d] < 0 {
			pt.position[d] = 0
			pt.velocity[d] = 0
		}
		if pt.position[d] > upper {
			pt.position[d] = upper
			pt.velocity[d] = 0
		}
	}
}

// evaluateAll decodes and scores every particle. Evaluations are
// independent and draw no randomness, so they fan out to workers without
// affecting determinism.
func (o Optimizer) evaluateAll(p Problem, parts []particle) {
	workers := o.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(parts) {
		workers = len(parts)
	}
	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				parts[i].decoded = decode(p, parts[i].position)
				parts[i].fitness = Evaluate(p, parts[i].decoded)
			}
		}()
	}
	for i := range parts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// betterPersonal reports whether the new fitness should replace the
// personal best: it dominates, or neither dominates and it scores higher by
// weighted-sum scalarization.
func betterPersonal(fit, best, weights []float64) bool {
	if Dominates(fit, best) {
		return true
	}
	if Dominates(best, fit) {
		return false
	}
	return floats.Dot(weights, fit) > floats.Dot(weights, best)
}

// decode maps a particle position to a capacity-feasible assignment. Agents
// over capacity keep their lowest order ids and shed the rest, so the
// decoded solution always satisfies the residual-capacity constraint.
func decode(p Problem, position []float64) model.Assignment {
	perAgent := make([][]int, len(p.Agents))
	for i, o := range p.Orders {
		idx := int(position[i])
		if idx < 0 || idx >= len(p.Agents) {
			continue
		}
		perAgent[idx] = append(perAgent[idx], o.OrderID)
	}

	asn := make(model.Assignment)
	for idx, agent := range p.Agents {
		ids := perAgent[idx]
		if len(ids) == 0 {
			continue
		}
		capacity := agent.ResidualCapacity()
		if m := p.Constraints.MaxOrdersPerAgent; m > 0 && m < capacity {
			capacity = m
		}
		if capacity <= 0 {
			continue
		}
		sort.Ints(ids)
		if len(ids) > capacity {
			ids = ids[:capacity]
		}
		asn[agent.AgentID] = ids
	}
	return asn
}

func equalWeights() []float64 {
	w := make([]float64, NumObjectives)
	for i := range w {
		w[i] = 1.0 / NumObjectives
	}
	return w
}
