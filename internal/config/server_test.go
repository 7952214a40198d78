package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.TimeLimitSecs != 600 {
		t.Fatalf("TimeLimitSecs = %d, want 600", cfg.TimeLimitSecs)
	}
	if cfg.GracePeriodSecs != 30 {
		t.Fatalf("GracePeriodSecs = %d, want 30", cfg.GracePeriodSecs)
	}
	if cfg.SyncIntervalSecs != 10 {
		t.Fatalf("SyncIntervalSecs = %d, want 10", cfg.SyncIntervalSecs)
	}
	if cfg.CleanupDelaySecs != 60 {
		t.Fatalf("CleanupDelaySecs = %d, want 60", cfg.CleanupDelaySecs)
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("PVP_TIME_LIMIT", "5")
	t.Setenv("PVP_DISCONNECT_GRACE", "1")
	t.Setenv("PVP_SYNC_INTERVAL", "1")
	t.Setenv("PVP_CLEANUP_DELAY", "2")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.TimeLimitSecs != 5 {
		t.Fatalf("TimeLimitSecs = %d, want 5", cfg.TimeLimitSecs)
	}
	if cfg.GracePeriodSecs != 1 {
		t.Fatalf("GracePeriodSecs = %d, want 1", cfg.GracePeriodSecs)
	}
	if cfg.CleanupDelaySecs != 2 {
		t.Fatalf("CleanupDelaySecs = %d, want 2", cfg.CleanupDelaySecs)
	}
}

func TestLoadCaseDefaults(t *testing.T) {
	cfg, err := LoadCase()
	if err != nil {
		t.Fatalf("LoadCase() error = %v", err)
	}
	if cfg.Suspect != "victor" || cfg.Weapon != "poison_vial" || cfg.Room != "bedroom" {
		t.Fatalf("unexpected case defaults: %+v", cfg)
	}
	if cfg.StartingRoom != "bedroom" {
		t.Fatalf("StartingRoom = %q, want bedroom", cfg.StartingRoom)
	}
}

func TestLoadCaseOverride(t *testing.T) {
	t.Setenv("CASE_SUSPECT", "ada")
	t.Setenv("CASE_WEAPON", "candlestick")
	t.Setenv("CASE_ROOM", "study")

	cfg, err := LoadCase()
	if err != nil {
		t.Fatalf("LoadCase() error = %v", err)
	}
	if cfg.Suspect != "ada" || cfg.Weapon != "candlestick" || cfg.Room != "study" {
		t.Fatalf("unexpected case config: %+v", cfg)
	}
}
