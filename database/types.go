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
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DBType identifies the database family behind a connection string.
type DBType string

const (
	Postgres DBType = "postgres"
	MySQL    DBType = "mysql"
	SQLite   DBType = "sqlite"
)

// HealthStatus holds the result of a connectivity check.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	ResponseTime  time.Duration `json:"response_time"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// ConnectionConfig describes a database by its parts. It is turned into a
// connection string when Config.ConnectionString is empty.
type ConnectionConfig struct {
	Type     string            `yaml:"type" json:"type"` // postgres, mysql, sqlite
	Host     string            `yaml:"host" json:"host"`
	Port     int               `yaml:"port" json:"port"`
	Username string            `yaml:"username" json:"username"`
	Password string            `yaml:"password" json:"password"`
	DBName   string            `yaml:"dbname" json:"dbname"`
	SSLMode  string            `yaml:"sslmode" json:"sslmode"`
	Params   map[string]string `yaml:"params" json:"params"`
}

// ConnectionString renders the configuration as a connection string
// accepted by NewConnector.
func (c *ConnectionConfig) ConnectionString() (string, error) {
	switch DBType(strings.ToLower(c.Type)) {
	case Postgres, "postgresql":
		return c.postgresConnectionString(), nil
	case MySQL:
		return c.mysqlConnectionString(), nil
	case SQLite, "sqlite3":
		name := c.DBName
		if name == "" {
			return "", fmt.Errorf("sqlite database name cannot be empty")
		}
		if !strings.HasSuffix(name, ".db") {
			name += ".db"
		}
		return "sqlite://" + name, nil
	default:
		return "", fmt.Errorf("unsupported database type: %q, supported types: %v", c.Type, []DBType{Postgres, MySQL, SQLite})
	}
}

func (c *ConnectionConfig) postgresConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	query := url.Values{}
	query.Set("sslmode", sslMode)
	for k, v := range c.Params {
		query.Set(k, v)
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     c.addr(5432),
		Path:     "/" + c.DBName,
		RawQuery: query.Encode(),
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}

func (c *ConnectionConfig) mysqlConnectionString() string {
	cfg := mysql.NewConfig()
	cfg.User = c.Username
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.addr(3306)
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	if len(c.Params) > 0 {
		cfg.Params = make(map[string]string, len(c.Params))
		for k, v := range c.Params {
			cfg.Params[k] = v
		}
	}
	return "mysql://" + cfg.FormatDSN()
}

func (c *ConnectionConfig) addr(defaultPort int) string {
	host := c.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Config is the file representation of a facade's database settings.
type Config struct {
	ConnectionString string           `yaml:"connection_string" json:"connection_string"`
	Connection       ConnectionConfig `yaml:"connection" json:"connection"`
	ConnectTimeout   time.Duration    `yaml:"connect_timeout" json:"connect_timeout"`
	EnableQueryLog   bool             `yaml:"enable_query_log" json:"enable_query_log"`
	SlowQueryTime    time.Duration    `yaml:"slow_query_time" json:"slow_query_time"`
}

// DefaultConfig returns a config with the default timeouts.
func DefaultConfig() *Config {
	return &Config{
		ConnectTimeout: time.Second * 10,
		SlowQueryTime:  time.Second * 2,
	}
}

// DSN returns ConnectionString, or renders Connection when it is empty.
func (c *Config) DSN() (string, error) {
	if c.ConnectionString != "" {
		return c.ConnectionString, nil
	}
	return c.Connection.ConnectionString()
}

// Options converts the tuning fields into connector options.
func (c *Config) Options() []Option {
	return []Option{
		WithConnectTimeout(c.ConnectTimeout),
		WithQueryLog(c.EnableQueryLog),
		WithSlowQueryTime(c.SlowQueryTime),
	}
}
