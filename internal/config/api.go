package config

import "time"

// APIConfig configures the career API client.
type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	Timeout           string  `yaml:"timeout"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// DefaultAPIConfig returns the API defaults.
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		BaseURL:           "http://localhost:8000",
		Timeout:           "30s",
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// GetTimeout returns the request timeout as a duration.
func (a APIConfig) GetTimeout() time.Duration {
	return parseDuration(a.Timeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
