/*
 * Copyright 2025 marlowe-io.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func sqliteConfig(t *testing.T) *Config {
	t.Helper()
	cfg := &Config{Connection: *DefaultConnectionConfig()}
	cfg.Connection.Type = "sqlite"
	cfg.Connection.DBName = filepath.Join(t.TempDir(), "conn_test.db")
	return cfg
}

func TestInitDBAndClose(t *testing.T) {
	db, err := InitDB(sqliteConfig(t))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = CloseDB() }()

	if db == nil || GetDB() != db {
		t.Fatal("global handle not installed")
	}
	if err := GetManager().Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	status := GetHealthStatus(context.Background())
	if !status.Healthy || !status.Connected {
		t.Fatalf("expected healthy status, got %+v", status)
	}
	if stats := GetDatabaseStats(); stats.MaxOpenConns == 0 {
		t.Fatalf("pool not configured: %+v", stats)
	}

	if err := CloseDB(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if GetDB() != nil {
		t.Fatal("global handle should be cleared after close")
	}
}

func TestInitDBRejectsBadConfig(t *testing.T) {
	if _, err := InitDB(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	cfg := sqliteConfig(t)
	cfg.Connection.Type = "oracle"
	if _, err := InitDB(cfg); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestHealthStatusBeforeInit(t *testing.T) {
	_ = CloseDB()
	status := GetHealthStatus(context.Background())
	if status.Healthy {
		t.Fatalf("uninitialized database reported healthy: %+v", status)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `connection:
  type: sqlite
  dbname: app
  max_open_conns: 7
  enable_query_log: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Connection.Type != "sqlite" || cfg.Connection.DBName != "app" {
		t.Fatalf("unexpected connection config: %+v", cfg.Connection)
	}
	if cfg.Connection.MaxOpenConns != 7 {
		t.Fatalf("expected max_open_conns 7, got %d", cfg.Connection.MaxOpenConns)
	}
	if !cfg.Connection.EnableQueryLog {
		t.Fatal("enable_query_log not applied")
	}
	// Unset fields keep defaults.
	if cfg.Connection.MaxIdleConns != 10 {
		t.Fatalf("defaults lost: %+v", cfg.Connection)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
