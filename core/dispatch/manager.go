package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nroussel/airdispatch/core/agentstatus"
	"github.com/nroussel/airdispatch/core/dispatch/logging"
	"github.com/nroussel/airdispatch/core/events"
	"github.com/nroussel/airdispatch/core/logger"
	"github.com/nroussel/airdispatch/core/metrics"
	"github.com/nroussel/airdispatch/core/model"
	"github.com/nroussel/airdispatch/core/state"
	"github.com/nroussel/airdispatch/internal/eventbus"
)

// Manager runs one dispatch cycle per simulation tick: it snapshots the
// fleet, computes an assignment, applies it through the state machine and
// records the outcome. Cycles never overlap; the surrounding loop invokes
// RunCycle synchronously.
type Manager struct {
	assigner    Assigner
	fleet       *state.Machine
	resolver    *Resolver
	cfg         Config
	logger      logger.Logger
	metrics     metrics.MetricsSink
	bus         eventbus.EventBus
	store       logging.LogStore
	statusStore agentstatus.Store
	allowBusy   bool
	history     []CycleResult
	mu          sync.Mutex
}

// NewManager creates a new manager. The assigner, fleet and logger are
// mandatory; sink, bus, log store and status store may be nil.
func NewManager(assigner Assigner, fleet *state.Machine, cfg Config, log logger.Logger, sink metrics.MetricsSink, bus eventbus.EventBus) (*Manager, error) {
	if assigner == nil || fleet == nil || log == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewManager")
	}
	cfg.SetDefaults()
	if sink == nil {
		sink = metrics.NopSink{}
	}
	// mopso in idle-first mode without busy fallback only ever targets
	// idle agents; apply enforces the same rule in the state machine.
	idleOnly := cfg.Policy == "mopso" && *cfg.PrioritizeIdle && !cfg.AllowBusyFallback
	return &Manager{
		assigner:  assigner,
		fleet:     fleet,
		resolver:  NewResolver(FallbackPolicy(cfg.Fallback), fleet),
		cfg:       cfg,
		logger:    log,
		metrics:   sink,
		bus:       bus,
		allowBusy: !idleOnly,
	}, nil
}

// SetLogStore configures the store used to persist dispatch logs.
func (m *Manager) SetLogStore(store logging.LogStore) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

// SetStatusStore configures the store used to persist per-agent status.
func (m *Manager) SetStatusStore(store agentstatus.Store) {
	m.mu.Lock()
	m.statusStore = store
	m.mu.Unlock()
}

// Resolver returns the candidate resolver bound to the fleet.
func (m *Manager) Resolver() *Resolver { return m.resolver }

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	if m.store != nil {
		_ = m.store.Close()
	}
	return nil
}

// Dispatch computes an assignment for the given snapshots without touching
// any state. Callers that want the decision applied use RunCycle instead.
func (m *Manager) Dispatch(in CycleInput) model.Assignment {
	if len(in.Weights) == 0 {
		in.Weights = m.cfg.Weights
	}
	return m.assigner.Assign(in)
}

// RunCycle executes one dispatch cycle at the given tick.
func (m *Manager) RunCycle(tick int) CycleResult {
	start := time.Now()
	orders := m.fleet.ReadyOrders(m.cfg.MaxOrders)
	agents := m.fleet.AgentsSnapshot()
	in := CycleInput{
		Tick:        tick,
		Orders:      orders,
		Agents:      agents,
		Merchants:   m.fleet.Merchants(),
		Constraints: model.RouteConstraints{MaxOrdersPerAgent: m.cfg.MaxOrdersPerAgent},
		Weights:     m.cfg.Weights,
		Seed:        m.cfg.Seed + int64(tick),
	}
	asn := m.assigner.Assign(in)

	result := CycleResult{
		CycleID:    uuid.NewString(),
		Tick:       tick,
		Assignment: asn,
		Applied:    make(map[int]int),
		Rejections: make(map[string]int),
	}
	recs := m.apply(&result, start)
	result.Unassigned = len(orders) - asn.Orders()
	if result.Unassigned > 0 {
		ordersUnassigned.Add(float64(result.Unassigned))
	}

	cyclesTotal.Inc()
	cycleDuration.Observe(time.Since(start).Seconds())
	m.logger.Infof("cycle %d: %d ready orders, %d assigned, %d applied",
		tick, len(orders), asn.Orders(), result.AppliedOrders())

	if err := m.metrics.RecordAssignments(recs); err != nil {
		m.logger.Errorf("metrics error: %v", err)
	}
	if cr, ok := m.metrics.(metrics.CycleRecorder); ok {
		err := cr.RecordCycle(metrics.CycleRecord{
			CycleID:     result.CycleID,
			Tick:        tick,
			ReadyOrders: len(orders),
			Agents:      len(agents),
			Assigned:    asn.Orders(),
			Applied:     result.AppliedOrders(),
			Unassigned:  result.Unassigned,
			Duration:    time.Since(start),
			Time:        start,
		})
		if err != nil {
			m.logger.Errorf("cycle metrics error: %v", err)
		}
	}
	if m.bus != nil {
		m.bus.Publish(events.CycleEvent{
			CycleID:    result.CycleID,
			Tick:       tick,
			Assigned:   asn.Orders(),
			Applied:    result.AppliedOrders(),
			Unassigned: result.Unassigned,
		})
	}
	m.persist(result, orders, agents, start)

	m.mu.Lock()
	m.history = append(m.history, result)
	if n := m.cfg.HistorySize; n > 0 && len(m.history) > n {
		m.history = append([]CycleResult(nil), m.history[len(m.history)-n:]...)
	}
	m.mu.Unlock()
	return result
}

// apply feeds the assignment through the state machine in ascending agent
// and order id order. A rejection skips that single order; the rest of the
// cycle proceeds.
func (m *Manager) apply(result *CycleResult, now time.Time) []metrics.AssignmentRecord {
	var recs []metrics.AssignmentRecord
	for _, agentID := range sortedAgentIDs(result.Assignment) {
		for _, orderID := range result.Assignment[agentID] {
			err := m.fleet.Assign(agentID, orderID, m.allowBusy)
			rec := metrics.AssignmentRecord{
				CycleID: result.CycleID,
				Tick:    result.Tick,
				AgentID: agentID,
				OrderID: orderID,
				Applied: err == nil,
				Time:    now,
			}
			if err != nil {
				code := string(state.Reason(err))
				rec.Reason = code
				result.Rejections[code]++
				applyRejections.WithLabelValues(code).Inc()
				m.logger.Warnf("assign order %d to agent %d rejected: %v", orderID, agentID, err)
				if m.bus != nil {
					m.bus.Publish(events.RejectionEvent{
						CycleID: result.CycleID,
						Tick:    result.Tick,
						AgentID: agentID,
						OrderID: orderID,
						Code:    code,
					})
				}
			} else {
				result.Applied[agentID]++
			}
			recs = append(recs, rec)
			if m.bus != nil {
				m.bus.Publish(events.AssignmentEvent{
					CycleID: result.CycleID,
					Tick:    result.Tick,
					AgentID: agentID,
					OrderID: orderID,
					Applied: err == nil,
				})
			}
		}
	}
	return recs
}

// persist writes the cycle outcome to the log and status stores when they
// are configured. Failures are logged, never fatal.
func (m *Manager) persist(result CycleResult, orders []model.OrderSnapshot, agents []model.AgentSnapshot, now time.Time) {
	m.mu.Lock()
	store := m.store
	statusStore := m.statusStore
	m.mu.Unlock()

	if store != nil {
		oids := make([]int, 0, len(orders))
		for _, o := range orders {
			oids = append(oids, o.OrderID)
		}
		aids := make([]int, 0, len(agents))
		for _, a := range agents {
			aids = append(aids, a.AgentID)
		}
		err := store.Append(context.Background(), logging.LogRecord{
			CycleID:     result.CycleID,
			Timestamp:   now,
			Tick:        result.Tick,
			ReadyOrders: oids,
			Agents:      aids,
			Assignment:  result.Assignment,
			Applied:     result.Applied,
			Rejections:  result.Rejections,
			Unassigned:  result.Unassigned,
		})
		if err != nil {
			m.logger.Errorf("log store error: %v", err)
		}
	}
	if statusStore != nil {
		for _, agentID := range sortedAgentIDs(result.Assignment) {
			statusStore.RecordDispatch(agentID, agentstatus.LastDispatch{
				CycleID:   result.CycleID,
				Tick:      result.Tick,
				OrderIDs:  append([]int(nil), result.Assignment[agentID]...),
				Timestamp: now,
			})
		}
	}
}

// History returns a copy of the cycle results recorded so far.
func (m *Manager) History() []CycleResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CycleResult(nil), m.history...)
}

// ResolveCandidate decodes the external selection signal for an agent
// against its candidate list. See Resolver.Resolve.
func (m *Manager) ResolveCandidate(agentID int, candidates []model.CandidateSlot, raw float64) (int, bool) {
	return m.resolver.Resolve(agentID, candidates, raw)
}
