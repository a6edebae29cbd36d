// Package config handles configuration for the dev server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the propkeeper dev server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - PageSize: records per page on list endpoints.
//   - SeedDemoData: populate the store with demo users and records at startup.
type Config struct {
	EndpointAddrHTTP             string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	PageSize                     int
	SeedDemoData                 bool
}

// LoadDefaults populates Config with development defaults matching the
// production API: one hour access tokens, seven day refresh tokens.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.PageSize = 20
	c.SeedDemoData = true
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
