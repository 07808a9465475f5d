package api

import (
	"context"
	"net/http"
	"time"

	"github.com/nroussel/airdispatch/api/agents"
	apidispatch "github.com/nroussel/airdispatch/api/dispatch"
	"github.com/nroussel/airdispatch/core/agentstatus"
	"github.com/nroussel/airdispatch/core/dispatch/logging"
	"github.com/nroussel/airdispatch/core/kpi"
)

// Deps holds the stores the API exposes. Nil entries disable the
// corresponding routes.
type Deps struct {
	Logs     logging.LogStore
	Statuses agentstatus.Store
	KPIs     kpi.Store
	Token    string
}

// NewMux builds the API routing table.
func NewMux(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()
	if deps.Logs != nil {
		mux.Handle("/api/dispatch/logs", apidispatch.NewLogHandler(deps.Logs, deps.Token))
	}
	if deps.Statuses != nil {
		mux.Handle("/api/agents/status", agents.NewStatusHandler(deps.Statuses))
	}
	if deps.KPIs != nil {
		mux.Handle("/api/agents/", agents.NewKPIHandler(deps.KPIs))
	}
	return mux
}

// StartServer serves the API on addr until the context is cancelled.
func StartServer(ctx context.Context, addr string, deps Deps) error {
	srv := &http.Server{Addr: addr, Handler: NewMux(deps)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
