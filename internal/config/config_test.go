package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("shutdown timeout = %v, want 30s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Kafka.Enabled {
		t.Error("kafka should be disabled by default")
	}
	if cfg.Kafka.Topic != "pelada-scoresheet" {
		t.Errorf("kafka topic = %q", cfg.Kafka.Topic)
	}
	if cfg.Teams.DefaultLinePlayers != 10 {
		t.Errorf("default line players = %d, want 10", cfg.Teams.DefaultLinePlayers)
	}
	if cfg.Teams.GoalkeeperPosition != "goleiro" {
		t.Errorf("goalkeeper position = %q, want goleiro", cfg.Teams.GoalkeeperPosition)
	}
}

func TestParseExpandsEnvironment(t *testing.T) {
	t.Setenv("PELADA_DB_PASSWORD", "s3cret")

	cfg, err := Parse([]byte(`
server:
  port: 9090
postgres:
  host: db
  password: ${PELADA_DB_PASSWORD}
  database: futebol
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
  batch_timeout: 250ms
teams:
  default_line_players: 6
log:
  level: debug
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Postgres.Password != "s3cret" {
		t.Errorf("postgres password = %q, want expanded value", cfg.Postgres.Password)
	}
	if want := "postgres://pelada:s3cret@db:5432/futebol?sslmode=disable"; cfg.Postgres.ConnectionString() != want {
		t.Errorf("connection string = %q, want %q", cfg.Postgres.ConnectionString(), want)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("kafka = %+v", cfg.Kafka)
	}
	if cfg.Kafka.BatchTimeout != 250*time.Millisecond {
		t.Errorf("batch timeout = %v, want 250ms", cfg.Kafka.BatchTimeout)
	}
	if cfg.Kafka.BatchSize != 50 {
		t.Errorf("batch size = %d, want default 50", cfg.Kafka.BatchSize)
	}
	if cfg.Teams.DefaultLinePlayers != 6 {
		t.Errorf("default line players = %d, want 6", cfg.Teams.DefaultLinePlayers)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.Log.SlogLevel())
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("server: [")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server port = %d, want 7070", cfg.Server.Port)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (LogConfig{Level: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
