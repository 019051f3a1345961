package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override config.json for a single invocation.
const (
	EnvConfigDir    = "W3APPROVE_CONFIG_DIR"
	EnvNetwork      = "W3APPROVE_NETWORK"
	EnvNetworkMode  = "W3APPROVE_NETWORK_MODE"
	EnvWallet       = "W3APPROVE_WALLET"
	EnvRPCURL       = "W3APPROVE_RPC_URL"
	EnvArtifactsDir = "W3APPROVE_ARTIFACTS_DIR"
	EnvArtifactsURL = "W3APPROVE_ARTIFACTS_URL"
	EnvContract     = "W3APPROVE_CONTRACT"
	EnvLogLevel     = "W3APPROVE_LOG_LEVEL"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none are
// given) into the process environment. Variables that are already set win.
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	present := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ApplyEnv overlays W3APPROVE_* variables onto c. lookup is os.LookupEnv in
// production; tests pass a map-backed function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvNetwork); ok {
		c.DefaultNetwork = strings.ToLower(v)
	}
	if v, ok := get(EnvNetworkMode); ok {
		c.NetworkMode = strings.ToLower(v)
	}
	if v, ok := get(EnvWallet); ok {
		c.DefaultWallet = v
	}
	if v, ok := get(EnvRPCURL); ok {
		if c.CustomRPCs == nil {
			c.CustomRPCs = make(map[string][]string)
		}
		// Env RPC goes first so it is tried before anything from config.json.
		rpcs := c.CustomRPCs[c.DefaultNetwork]
		c.CustomRPCs[c.DefaultNetwork] = append([]string{v}, rpcs...)
	}
	if v, ok := get(EnvArtifactsDir); ok {
		c.ArtifactsDir = v
	}
	if v, ok := get(EnvArtifactsURL); ok {
		c.ArtifactsURL = v
	}
	if v, ok := get(EnvContract); ok {
		c.ContractName = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = v
	}
}
