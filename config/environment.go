package config

import "strings"

const (
	environmentMainnet = "mainnet"
	environmentTestnet = "testnet"
)

const (
	// EnvironmentMainnet exposes the canonical production environment
	// identifier. It can be used by callers outside the config package
	// when environment specific behaviour is required.
	EnvironmentMainnet = environmentMainnet
	// EnvironmentTestnet exposes the canonical test environment
	// identifier.
	EnvironmentTestnet = environmentTestnet
)

var environmentAliases = map[string]string{
	"prod":       environmentMainnet,
	"production": environmentMainnet,
	"main":       environmentMainnet,
	"live":       environmentMainnet,
	"test":       environmentTestnet,
	"demo":       environmentTestnet,
}

// NormalizeEnvironment maps user supplied environment names onto the
// canonical mainnet/testnet identifiers and defaults to mainnet when no
// value is provided.
func NormalizeEnvironment(env string) string {
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "" {
		return environmentMainnet
	}
	if canonical, ok := environmentAliases[env]; ok {
		return canonical
	}
	return env
}

// WebsocketURL resolves the private stream endpoint for the configured
// environment.
func WebsocketURL(cfg *Config) string {
	switch cfg.Feed.Environment {
	case environmentTestnet:
		return cfg.Feed.Endpoints.Testnet
	default:
		return cfg.Feed.Endpoints.Mainnet
	}
}

// RestURL resolves the REST base url for the configured environment. It is
// used only for the startup server-time preflight.
func RestURL(cfg *Config) string {
	switch cfg.Feed.Environment {
	case environmentTestnet:
		return cfg.Feed.Rest.Testnet
	default:
		return cfg.Feed.Rest.Mainnet
	}
}
