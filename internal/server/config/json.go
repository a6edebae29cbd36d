package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/propkeeper/internal/flagx"
	"github.com/dmitrijs2005/propkeeper/internal/timex"
)

// JsonConfig is a DTO used only for reading JSON configuration files.
// Duration fields accept "1h" style strings or integer nanoseconds; pointer
// fields tell an absent key from a zero value.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	PageSize                     *int            `json:"page_size"`
	SeedDemoData                 *bool           `json:"seed_demo_data"`
}

// parseJson loads configuration values from a JSON file into config.
// The path comes from -c/-config or the environment (flagx.ConfigFilePath);
// without one nothing is loaded. Read and unmarshal errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.PageSize != nil {
		config.PageSize = *c.PageSize
	}
	if c.SeedDemoData != nil {
		config.SeedDemoData = *c.SeedDemoData
	}
}
