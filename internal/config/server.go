package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Match tunables. Tests run with short values, so everything
	// time-based is env-driven rather than hard-coded.
	TimeLimitSecs    int `env:"PVP_TIME_LIMIT" envDefault:"600"`
	GracePeriodSecs  int `env:"PVP_DISCONNECT_GRACE" envDefault:"30"`
	SyncIntervalSecs int `env:"PVP_SYNC_INTERVAL" envDefault:"10"`
	CleanupDelaySecs int `env:"PVP_CLEANUP_DELAY" envDefault:"60"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
