package app

import (
	"context"
	"fmt"

	"github.com/nroussel/airdispatch/api"
	"github.com/nroussel/airdispatch/config"
	"github.com/nroussel/airdispatch/core/agentstatus"
	"github.com/nroussel/airdispatch/core/dispatch"
	dispatchlog "github.com/nroussel/airdispatch/core/dispatch/logging"
	corekpi "github.com/nroussel/airdispatch/core/kpi"
	coremetrics "github.com/nroussel/airdispatch/core/metrics"
	"github.com/nroussel/airdispatch/core/state"
	"github.com/nroussel/airdispatch/infra/kpi"
	"github.com/nroussel/airdispatch/infra/logger"
	"github.com/nroussel/airdispatch/infra/metrics"
	"github.com/nroussel/airdispatch/internal/eventbus"
	"github.com/nroussel/airdispatch/sim"
)

// Service wires the dispatch engine, the fleet state machine and the
// simulation world into one runnable episode.
type Service struct {
	Manager *dispatch.Manager
	World   *sim.World
	Fleet   *state.Machine

	cfg         *config.Config
	bus         eventbus.EventBus
	log         logger.Logger
	sink        coremetrics.MetricsSink
	logStore    dispatchlog.LogStore
	statusStore agentstatus.Store
	kpiStore    *kpi.SQLiteStore
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken,
			cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	fleet := state.NewMachine()
	assigner, err := newAssigner(cfg.Dispatch)
	if err != nil {
		return nil, err
	}
	manager, err := dispatch.NewManager(assigner, fleet, cfg.Dispatch, logg, sink, bus)
	if err != nil {
		return nil, fmt.Errorf("dispatch manager: %w", err)
	}
	store, err := newLogStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("log store: %w", err)
	}
	statusStore := agentstatus.NewMemoryStore()
	manager.SetLogStore(store)
	manager.SetStatusStore(statusStore)

	svc := &Service{
		Manager:     manager,
		Fleet:       fleet,
		cfg:         cfg,
		bus:         bus,
		log:         logg,
		sink:        sink,
		logStore:    store,
		statusStore: statusStore,
	}
	var kpiStore corekpi.Store
	if cfg.KPI.Enabled {
		s, err := kpi.NewSQLiteStore(cfg.KPI.Path)
		if err != nil {
			return nil, fmt.Errorf("kpi store: %w", err)
		}
		svc.kpiStore = s
		kpiStore = s
	}
	svc.World = sim.NewWorld(fleet, cfg.Sim, logg, bus, kpiStore)
	if err := svc.World.SpawnFleet(); err != nil {
		return nil, fmt.Errorf("spawn fleet: %w", err)
	}
	return svc, nil
}

func newAssigner(cfg dispatch.Config) (dispatch.Assigner, error) {
	switch cfg.Policy {
	case "mopso", "":
		return dispatch.NewMOPSOAssigner(cfg), nil
	case "greedy":
		return dispatch.GreedyAssigner{MaxOrders: cfg.MaxOrders}, nil
	case "edf":
		return dispatch.EDFAssigner{MaxOrders: cfg.MaxOrders}, nil
	default:
		return nil, fmt.Errorf("unknown dispatch policy %s", cfg.Policy)
	}
}

func newLogStore(cfg config.LoggingConfig) (dispatchlog.LogStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return dispatchlog.NewSQLiteStore(cfg.Path)
	default:
		return dispatchlog.NewJSONLStore(cfg.Path)
	}
}

// Run executes the episode tick loop and blocks until it completes or the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.Addr()); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		deps := api.Deps{
			Logs:     s.logStore,
			Statuses: s.statusStore,
			Token:    s.cfg.API.Token,
		}
		if s.kpiStore != nil {
			deps.KPIs = s.kpiStore
		}
		go func() {
			if err := api.StartServer(ctx, s.cfg.API.Addr(), deps); err != nil {
				s.log.Errorf("api server: %v", err)
			}
		}()
	}

	for tick := 1; tick <= s.cfg.Sim.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.World.Step(tick)
		s.Manager.RunCycle(tick)
		if s.cfg.Sim.StatsInterval > 0 && tick%s.cfg.Sim.StatsInterval == 0 {
			for _, v := range s.Fleet.ConsistencyCheck() {
				s.log.Errorf("consistency violation: %s", v)
			}
		}
	}

	completed, cancelled, onTime := s.Fleet.Stats()
	s.log.Infof("episode finished: %d generated, %d completed (%d on time), %d cancelled",
		s.World.Generated(), completed, onTime, cancelled)
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.kpiStore != nil {
		_ = s.kpiStore.Close()
	}
	return s.Manager.Close()
}
