/*
 * Copyright 2025 tomoncle.
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
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tomoncle/sqlrepo/utils"
)

// LoadConfig reads a YAML config file on top of DefaultConfig and applies
// the DB_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config data and applies environment overrides.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	overrideFromEnv(cfg)
	return cfg, nil
}

// overrideFromEnv overrides configuration values from environment variables.
func overrideFromEnv(cfg *Config) {
	if dsn := os.Getenv("DB_CONNECTION_STRING"); dsn != "" {
		cfg.ConnectionString = dsn
	}

	conn := &cfg.Connection
	if typ := os.Getenv("DB_TYPE"); typ != "" {
		conn.Type = typ
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		conn.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			conn.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		conn.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		conn.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		conn.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		conn.SSLMode = sslmode
	}

	cfg.ConnectTimeout = utils.EnvDefaultDuration("DB_CONNECT_TIMEOUT", cfg.ConnectTimeout)
	cfg.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", cfg.EnableQueryLog)
	cfg.SlowQueryTime = utils.EnvDefaultDuration("DB_SLOW_QUERY_TIME", cfg.SlowQueryTime)
}

// NewConnectorFromConfig builds a DSNConnector from cfg. Extra options are
// applied after the ones derived from cfg.
func NewConnectorFromConfig(cfg *Config, opt ...Option) (*DSNConnector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	return NewConnector(dsn, append(cfg.Options(), opt...)...)
}
