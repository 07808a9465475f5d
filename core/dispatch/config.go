package dispatch

import "fmt"

// Config defines dispatch engine settings.
type Config struct {
	Particles         int `json:"particles"`
	Iterations        int `json:"iterations"`
	ArchiveSize       int `json:"archive_size"`
	MaxOrders         int `json:"max_orders"`
	MaxOrdersPerAgent int `json:"max_orders_per_agent"`
	// PrioritizeIdle defaults to true; a pointer so an explicit false in
	// the configuration survives SetDefaults.
	PrioritizeIdle    *bool   `json:"prioritize_idle"`
	AllowBusyFallback bool    `json:"allow_busy_fallback"`
	LeftoverThreshold float64 `json:"leftover_threshold"`
	// HistorySize bounds the manager's in-memory cycle history.
	HistorySize int `json:"history_size"`
	// Policy selects the assigner: "mopso", "greedy" or "edf".
	Policy string `json:"policy"`
	// Fallback selects the candidate substitution rule: "none",
	// "cargo_first" or "first_valid".
	Fallback string    `json:"fallback"`
	Weights  []float64 `json:"objective_weights"`
	Seed     int64     `json:"seed"`
	Workers  int       `json:"workers"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Particles == 0 {
		c.Particles = 30
	}
	if c.Iterations == 0 {
		c.Iterations = 10
	}
	if c.ArchiveSize == 0 {
		c.ArchiveSize = 50
	}
	if c.MaxOrders == 0 {
		c.MaxOrders = 200
	}
	if c.MaxOrdersPerAgent == 0 {
		c.MaxOrdersPerAgent = 10
	}
	if c.PrioritizeIdle == nil {
		t := true
		c.PrioritizeIdle = &t
	}
	if c.LeftoverThreshold == 0 {
		c.LeftoverThreshold = 0.3
	}
	if c.HistorySize == 0 {
		c.HistorySize = 256
	}
	if c.Policy == "" {
		c.Policy = "mopso"
	}
	if c.Fallback == "" {
		c.Fallback = "cargo_first"
	}
	if len(c.Weights) == 0 {
		c.Weights = []float64{0.33, 0.33, 0.34}
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

// Validate checks that the configured names and ranges are usable.
func (c Config) Validate() error {
	switch c.Policy {
	case "mopso", "greedy", "edf":
	default:
		return fmt.Errorf("unknown policy %s", c.Policy)
	}
	switch FallbackPolicy(c.Fallback) {
	case FallbackNone, FallbackCargoFirst, FallbackFirstValid:
	default:
		return fmt.Errorf("unknown fallback policy %s", c.Fallback)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must be non-negative, got %d", c.HistorySize)
	}
	if c.LeftoverThreshold < 0 || c.LeftoverThreshold > 1 {
		return fmt.Errorf("leftover_threshold must be in [0,1], got %v", c.LeftoverThreshold)
	}
	for _, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("objective weights must be non-negative")
		}
	}
	return nil
}
