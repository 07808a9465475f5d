package config

import "fmt"

// SimConfig configures the built-in fleet simulation.
type SimConfig struct {
	// Agents is the fleet size.
	Agents int `json:"agents"`
	// MaxCapacity is the per-agent order capacity.
	MaxCapacity int `json:"max_capacity"`
	// Ticks is the episode length.
	Ticks int `json:"ticks"`
	// OrderRate is the expected number of new orders per tick.
	OrderRate float64 `json:"order_rate"`
	// MapSize is the side length of the square service area.
	MapSize float64 `json:"map_size"`
	// DeadlineSlack is the number of ticks added on top of the minimal
	// travel time when assigning an order deadline.
	DeadlineSlack int `json:"deadline_slack"`
	// AgentSpeed is the distance an agent covers per tick.
	AgentSpeed float64 `json:"agent_speed"`
	// StatsInterval is the number of ticks between fleet stats events.
	StatsInterval int `json:"stats_interval"`
	// Seed drives order generation and agent placement.
	Seed int64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *SimConfig) SetDefaults() {
	if c.Agents == 0 {
		c.Agents = 10
	}
	if c.MaxCapacity == 0 {
		c.MaxCapacity = 3
	}
	if c.Ticks == 0 {
		c.Ticks = 500
	}
	if c.OrderRate == 0 {
		c.OrderRate = 2
	}
	if c.MapSize == 0 {
		c.MapSize = 100
	}
	if c.DeadlineSlack == 0 {
		c.DeadlineSlack = 30
	}
	if c.AgentSpeed == 0 {
		c.AgentSpeed = 1
	}
	if c.StatsInterval == 0 {
		c.StatsInterval = 10
	}
}

// Validate checks ranges.
func (c SimConfig) Validate() error {
	if c.Agents < 0 || c.MaxCapacity < 0 || c.Ticks < 0 {
		return fmt.Errorf("sim counts must be non-negative")
	}
	if c.OrderRate < 0 {
		return fmt.Errorf("order_rate must be non-negative")
	}
	if c.MapSize <= 0 {
		return fmt.Errorf("map_size must be positive")
	}
	if c.AgentSpeed <= 0 {
		return fmt.Errorf("agent_speed must be positive")
	}
	return nil
}
