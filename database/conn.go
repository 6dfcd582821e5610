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
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

var (
	globalMu      sync.RWMutex
	globalManager Manager
)

// InitDB opens the global database connection from the given configuration.
// Sensitive connection settings are overridable through DB_* environment
// variables. The returned handle is also reachable via GetDB.
func InitDB(cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	conn := cfg.Connection
	if err := validateType(conn.Type); err != nil {
		return nil, err
	}
	overrideFromEnv(&conn)

	manager := NewManager(&conn)
	manager.SetLogger(GetLogger())
	if err := manager.Connect(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	globalMu.Lock()
	globalManager = manager
	globalMu.Unlock()
	return manager.GetDB(), nil
}

// InitDBFromFile loads a YAML configuration file and opens the connection.
func InitDBFromFile(path string) (*bun.DB, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return InitDB(cfg)
}

// GetDB returns the global Bun database instance, or nil before InitDB.
func GetDB() *bun.DB {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalManager == nil {
		return nil
	}
	return globalManager.GetDB()
}

// GetManager returns the global database manager, or nil before InitDB.
func GetManager() Manager {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager
}

// CloseDB closes the global database connection.
func CloseDB() error {
	globalMu.Lock()
	manager := globalManager
	globalManager = nil
	globalMu.Unlock()
	if manager == nil {
		return nil
	}
	return manager.Disconnect()
}

// GetHealthStatus returns the current global database health status.
func GetHealthStatus(ctx context.Context) *HealthStatus {
	manager := GetManager()
	if manager == nil {
		return &HealthStatus{
			LastError:     "database not initialized",
			LastCheckTime: time.Now(),
		}
	}
	return manager.HealthCheck(ctx)
}

// GetDatabaseStats returns global connection pool statistics.
func GetDatabaseStats() *DBStats {
	manager := GetManager()
	if manager == nil {
		return &DBStats{}
	}
	return manager.GetStats()
}

func validateType(dbType string) error {
	switch dbType {
	case "mysql", "postgres", "postgresql", "sqlite", "sqlite3":
		return nil
	}
	return fmt.Errorf("unsupported database type: %s, supported types: [mysql postgres sqlite]", dbType)
}

func overrideFromEnv(cfg *ConnectionConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		cfg.SSLMode = sslmode
	}
	if v := os.Getenv("DB_MAX_IDLE_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxIdleConns = n
		}
	}
	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxOpenConns = n
		}
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ConnMaxLifetime = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("DB_ENABLE_RECONNECT"); v != "" {
		cfg.EnableReconnect = v == "true"
	}
	if v := os.Getenv("DB_RECONNECT_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReconnectInterval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("DB_ENABLE_QUERY_LOG"); v != "" {
		cfg.EnableQueryLog = v == "true"
	}
}
