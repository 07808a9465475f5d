package e2e

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nroussel/airdispatch/app"
	"github.com/nroussel/airdispatch/config"
	"github.com/nroussel/airdispatch/core/dispatch/logging"
)

func episodeConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Dispatch.SetDefaults()
	cfg.Logging.Backend = "jsonl"
	cfg.Logging.Path = filepath.Join(dir, "dispatch.log")
	cfg.Sim.SetDefaults()
	cfg.Sim.Agents = 3
	cfg.Sim.Ticks = 60
	cfg.Sim.OrderRate = 1
	cfg.Sim.MapSize = 20
	cfg.Sim.Seed = 7
	return cfg
}

// TestEpisodeEndToEnd runs a full simulated episode and checks that orders
// flowed through dispatch into delivery and into the persisted log.
func TestEpisodeEndToEnd(t *testing.T) {
	cfg := episodeConfig(t.TempDir())
	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if svc.World.Generated() == 0 {
		t.Fatalf("no orders generated")
	}
	completed, _, _ := svc.Fleet.Stats()
	if completed == 0 {
		t.Fatalf("no orders delivered in %d ticks", cfg.Sim.Ticks)
	}
	if len(svc.Manager.History()) != cfg.Sim.Ticks {
		t.Fatalf("expected %d cycles, got %d", cfg.Sim.Ticks, len(svc.Manager.History()))
	}

	store, err := logging.NewJSONLStore(cfg.Logging.Path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer store.Close()
	recs, err := store.Query(context.Background(), logging.LogQuery{})
	if err != nil {
		t.Fatalf("query log: %v", err)
	}
	if len(recs) != cfg.Sim.Ticks {
		t.Fatalf("expected %d log records, got %d", cfg.Sim.Ticks, len(recs))
	}
}

// startInflux starts an InfluxDB 2.7 container pre-initialised with the test
// org, bucket and token. The container is left running until terminated.
func startInflux(ctx context.Context, t *testing.T, org, bucket, token string) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         org,
			"DOCKER_INFLUXDB_INIT_BUCKET":      bucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": token,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

// TestEpisodeInfluxExport runs an episode against a containerised InfluxDB
// and verifies that assignment points landed in the bucket.
func TestEpisodeInfluxExport(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	org, bucket, token := "e2e_org", "e2e_bucket", "e2e-token"
	cont, url := startInflux(ctx, t, org, bucket, token)
	if cont != nil {
		defer cont.Terminate(ctx) //nolint:errcheck
	}

	cfg := episodeConfig(t.TempDir())
	cfg.Metrics.InfluxEnabled = true
	cfg.Metrics.InfluxURL = url
	cfg.Metrics.InfluxToken = token
	cfg.Metrics.InfluxOrg = org
	cfg.Metrics.InfluxBucket = bucket

	svc, err := app.New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()
	if err := svc.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	cli := NewInfluxClient(url, org, bucket, token)
	defer cli.Close()
	count, err := cli.CountMeasurement(ctx, "assignment_event", "-5m")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count == 0 {
		t.Fatalf("no assignment points returned from Influx")
	}
}
