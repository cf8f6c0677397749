package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port == 0 {
		t.Error("expected a default server port")
	}
	if cfg.Database.Name == "" {
		t.Error("expected a default database name")
	}
	if cfg.Redis.Addr == "" {
		t.Error("expected a default redis address")
	}
	if cfg.Audit.Buffer <= 0 {
		t.Error("expected a positive audit buffer")
	}
	if cfg.Audit.ArchiveAfterDays <= 0 {
		t.Error("expected a positive archive retention")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("AUDIT_BUFFER", "32")
	t.Setenv("POSTGRES_DB", "passport_env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Audit.Buffer != 32 {
		t.Errorf("expected audit buffer 32, got %d", cfg.Audit.Buffer)
	}
	if cfg.Database.Name != "passport_env" {
		t.Errorf("expected database passport_env, got %s", cfg.Database.Name)
	}
}

func TestLoadTestConfig(t *testing.T) {
	cfg := LoadTestConfig()

	if cfg.Database.Name != "passport_test" {
		t.Errorf("test config must target the test database, got %s", cfg.Database.Name)
	}
	if cfg.JWT.Secret == "" {
		t.Error("test config must carry a signing secret")
	}
	if cfg.Audit.Buffer <= 0 {
		t.Error("test config must carry a usable audit buffer")
	}
}
