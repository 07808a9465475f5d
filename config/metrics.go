package config

// MetricsConfig selects and configures the metrics sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// Addr returns the Prometheus listen address.
func (c MetricsConfig) Addr() string {
	if c.PrometheusPort == "" {
		return ":2112"
	}
	return ":" + c.PrometheusPort
}

// KPIConfig configures the per-agent delivery KPI store.
type KPIConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}
