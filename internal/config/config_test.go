package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kayanalsakkaf/BasiraAajil/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "basira"
user = "basira"
password = "basira"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "documents"
connection_string = "DefaultEndpointsProtocol=http;AccountName=basirastore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/basirastore;"

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50

[pipeline]
max_concurrency = 8
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

// minimalConfig provides the minimum fields required for validation to pass.
const minimalConfig = `
[database]
name = "basira"
user = "basira"

[storage]
connection_string = "conn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("database host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "documents" {
		t.Errorf("container name: got %s, want documents", cfg.Storage.ContainerName)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("default page size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.Pipeline.MaxConcurrency != 8 {
		t.Errorf("max concurrency: got %d, want 8", cfg.Pipeline.MaxConcurrency)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.prod.toml", overlayConfig)
	chdir(t, dir)
	t.Setenv(config.EnvBasiraEnv, "prod")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want overlay 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("database host: got %s, want overlay prodhost", cfg.Database.Host)
	}

	// Fields absent from the overlay keep their base values.
	if cfg.Database.Name != "basira" {
		t.Errorf("database name: got %s, want basira", cfg.Database.Name)
	}
}

func TestLoadMinimalAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("base path default: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.Pipeline.MaxConcurrency != 4 {
		t.Errorf("max concurrency default: got %d, want 4", cfg.Pipeline.MaxConcurrency)
	}
	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("shutdown timeout default: got %s, want 30s", cfg.ShutdownTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv(config.EnvServerPort, "7070")
	t.Setenv(config.EnvPipelineMaxConcurrency, "2")
	t.Setenv(config.EnvBasiraShutdownTimeout, "45s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server port: got %d, want env 7070", cfg.Server.Port)
	}
	if cfg.Pipeline.MaxConcurrency != 2 {
		t.Errorf("max concurrency: got %d, want env 2", cfg.Pipeline.MaxConcurrency)
	}
	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("shutdown timeout: got %s, want env 45s", cfg.ShutdownTimeout)
	}
}

func TestLoadInvalidShutdownTimeout(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)
	t.Setenv(config.EnvBasiraShutdownTimeout, "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for invalid shutdown timeout")
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	cfg := config.APIConfig{MaxUploadSize: "10MB"}
	if got := cfg.MaxUploadSizeBytes(); got != 10*1024*1024 {
		t.Errorf("max upload size: got %d, want %d", got, 10*1024*1024)
	}

	cfg = config.APIConfig{MaxUploadSize: "garbage"}
	if got := cfg.MaxUploadSizeBytes(); got != 50*1024*1024 {
		t.Errorf("fallback upload size: got %d, want %d", got, 50*1024*1024)
	}
}
