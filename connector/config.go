package connector

import (
	"fmt"
	"os"
	"time"

	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"gopkg.in/yaml.v3"
)

// Config represents one named database connection.
type Config struct {
	Driver         string            `json:"driver" yaml:"driver"`
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
}

// RetryConfig bounds the startup ping of a newly opened pool.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
}

// File is the named-connection configuration document:
//
//	default: main
//	connections:
//	  main:
//	    driver: sqlserver
//	    host: db.internal
//	    port: 1433
//	    database: sales
type File struct {
	Default     string            `json:"default" yaml:"default"`
	Connections map[string]Config `json:"connections" yaml:"connections"`
}

// Load reads and validates a YAML connection file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("connector: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML connection document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("connector: parse config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) Validate() error {
	if f.Default != "" {
		if _, ok := f.Connections[f.Default]; !ok {
			return bulkerr.Configurationf("connector", bulkerr.ErrUnknownConnection, "default %q is not defined", f.Default)
		}
	}
	for name, cfg := range f.Connections {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("connection %s: %w", name, err)
		}
	}
	return nil
}

// Lookup returns the named connection; an empty name selects the default.
func (f *File) Lookup(name string) (Config, string, bool) {
	if name == "" {
		name = f.Default
	}
	cfg, ok := f.Connections[name]
	return cfg, name, ok
}

func (c Config) Validate() error {
	if c.Driver == "" {
		return bulkerr.Configurationf("connector", bulkerr.ErrUnknownDriver, "driver is required")
	}
	if c.Host == "" {
		return bulkerr.Configurationf("connector", bulkerr.ErrUnknownConnection, "host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return bulkerr.Configurationf("connector", bulkerr.ErrUnknownConnection, "invalid port: %d", c.Port)
	}
	return nil
}

// WithCredentials returns a copy of c using cred when it is set.
func (c Config) WithCredentials(cred *Credentials) Config {
	if cred.IsZero() {
		return c
	}
	c.Username = cred.Username
	c.Password = cred.Password
	return c
}
