package config

// APIConfig configures the optional HTTP API exposing dispatch logs, agent
// status and delivery KPIs.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Port    string `json:"port"`
	Token   string `json:"token"` // bearer token for the dispatch log endpoint, empty disables auth
}

// Addr returns the API listen address.
func (c APIConfig) Addr() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}
