package config

import (
	"os"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if cfg.Admin.Addr != DefaultAdminAddr {
		t.Errorf("Admin.Addr = %q, want %q", cfg.Admin.Addr, DefaultAdminAddr)
	}
	if cfg.Storage.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, DefaultDataDir)
	}
	if cfg.Storage.Engine != DefaultEngine {
		t.Errorf("Engine = %q, want %q", cfg.Storage.Engine, DefaultEngine)
	}
	if cfg.Pool.Size != DefaultPoolSize {
		t.Errorf("Pool.Size = %d, want %d", cfg.Pool.Size, DefaultPoolSize)
	}
	if cfg.Pool.Kind != DefaultPoolKind {
		t.Errorf("Pool.Kind = %q, want %q", cfg.Pool.Kind, DefaultPoolKind)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
}

func TestSanitize_ReturnsCopy(t *testing.T) {
	cfg := Default()
	sanitized := Sanitize(cfg)

	if sanitized == cfg {
		t.Error("Sanitize should return a distinct copy")
	}
	if sanitized.Server.Addr != cfg.Server.Addr {
		t.Error("Sanitize should preserve field values")
	}
}

func TestVerify_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.DataDir = dir

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestVerify_EmptyDataDir(t *testing.T) {
	cfg := Default()
	cfg.Storage.DataDir = ""

	if err := Verify(cfg); err == nil {
		t.Error("expected error for empty data_dir")
	}
}

func TestVerify_EmptyServerAddr(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.DataDir = dir
	cfg.Server.Addr = ""

	if err := Verify(cfg); err == nil {
		t.Error("expected error for empty server.addr")
	}
}

func TestVerify_UnknownEngine(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.DataDir = dir
	cfg.Storage.Engine = "postgres"

	if err := Verify(cfg); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestVerify_UnknownPoolKind(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.DataDir = dir
	cfg.Pool.Kind = "bogus"

	if err := Verify(cfg); err == nil {
		t.Error("expected error for unknown pool kind")
	}
}

func TestVerify_NaiveIgnoresPoolSize(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.DataDir = dir
	cfg.Pool.Kind = "naive"
	cfg.Pool.Size = 0

	if err := Verify(cfg); err != nil {
		t.Errorf("naive pool kind should not require pool.size, got: %v", err)
	}
}

func TestVerify_CreatesDataDir(t *testing.T) {
	dir := t.TempDir()
	newDir := dir + "/subdir/data"
	cfg := Default()
	cfg.Storage.DataDir = newDir

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify failed: %v", err)
	}

	if _, err := os.Stat(newDir); os.IsNotExist(err) {
		t.Error("data directory should have been created")
	}
}
