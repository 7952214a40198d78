package config

import "github.com/caarlos0/env/v11"

// CaseConfig carries the fixed case data the server is constructed with.
// The identifiers are opaque strings; their cryptographic verification
// happens elsewhere.
type CaseConfig struct {
	Suspect      string `env:"CASE_SUSPECT" envDefault:"victor"`
	Weapon       string `env:"CASE_WEAPON" envDefault:"poison_vial"`
	Room         string `env:"CASE_ROOM" envDefault:"bedroom"`
	StartingRoom string `env:"CASE_STARTING_ROOM" envDefault:"bedroom"`
}

func LoadCase() (CaseConfig, error) {
	var cfg CaseConfig
	err := env.Parse(&cfg)
	return cfg, err
}
