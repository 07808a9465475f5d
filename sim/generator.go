package sim

import (
	"math"
	"math/rand"

	"github.com/nroussel/airdispatch/config"
	"github.com/nroussel/airdispatch/core/model"
)

// merchantPoolSize is the number of fixed merchant locations generated per
// episode.
const merchantPoolSize = 8

// OrderGenerator produces a randomized order stream at the configured rate.
// All randomness flows through a single seeded source, so two generators
// with the same seed emit identical streams.
type OrderGenerator struct {
	cfg       config.SimConfig
	rng       *rand.Rand
	merchants []model.Location
	nextID    int
	generated int
}

// NewOrderGenerator creates a generator with a fixed merchant pool.
func NewOrderGenerator(cfg config.SimConfig) *OrderGenerator {
	rng := rand.New(rand.NewSource(cfg.Seed))
	merchants := make([]model.Location, merchantPoolSize)
	for i := range merchants {
		merchants[i] = model.Location{
			X: rng.Float64() * cfg.MapSize,
			Y: rng.Float64() * cfg.MapSize,
		}
	}
	return &OrderGenerator{cfg: cfg, rng: rng, merchants: merchants, nextID: 1}
}

// Tick returns the orders arriving at the given tick. The integer part of
// the order rate arrives every tick; the fractional remainder arrives
// probabilistically.
func (g *OrderGenerator) Tick(tick int) []model.Order {
	n := int(g.cfg.OrderRate)
	if g.rng.Float64() < g.cfg.OrderRate-float64(n) {
		n++
	}
	orders := make([]model.Order, 0, n)
	for i := 0; i < n; i++ {
		mi := g.rng.Intn(len(g.merchants))
		merchant := g.merchants[mi]
		dropoff := model.Location{
			X: g.rng.Float64() * g.cfg.MapSize,
			Y: g.rng.Float64() * g.cfg.MapSize,
		}
		travel := int(math.Ceil(merchant.DistanceTo(dropoff) / g.cfg.AgentSpeed))
		orders = append(orders, model.Order{
			ID:          g.nextID,
			MerchantID:  mi + 1,
			Merchant:    merchant,
			Dropoff:     dropoff,
			Deadline:    tick + travel + g.cfg.DeadlineSlack,
			CreatedTick: tick,
		})
		g.nextID++
		g.generated++
	}
	return orders
}

// Generated returns the total number of orders emitted so far.
func (g *OrderGenerator) Generated() int { return g.generated }
