package kpi

// Record aggregates delivery counters for one agent over one tick window.
type Record struct {
	AgentID   int
	Window    int
	Delivered int
	OnTime    int
	Cancelled int
}

// WindowSize is the number of ticks aggregated into one KPI window.
const WindowSize = 100

// Window aligns a tick to the start of its aggregation window.
func Window(tick int) int {
	if tick < 0 {
		return 0
	}
	return tick - tick%WindowSize
}
