package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/relational/dialect"
	"github.com/syssam/relational/dialect/sql"
	"github.com/syssam/relational/style"
)

// Inspector names accepted in the config.
const (
	inspectorSelect = "select"
	inspectorAtlas  = "atlas"
)

// Config is the relq configuration file.
//
//	driver: sqlite
//	dsn: file:blog.db
//	style: standard
//	inspector: atlas
//	slow_threshold: 200ms
type Config struct {
	// Driver is the database/sql driver name: sqlite, mysql, postgres or pgx.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	// Dialect overrides the dialect derived from the driver name.
	Dialect       string        `yaml:"dialect,omitempty"`
	Style         string        `yaml:"style,omitempty"`
	Namespace     string        `yaml:"namespace,omitempty"`
	Inspector     string        `yaml:"inspector,omitempty"`
	Debug         bool          `yaml:"debug,omitempty"`
	SlowThreshold time.Duration `yaml:"slow_threshold,omitempty"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("relq: open config: %w", err)
	}
	defer f.Close()
	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("relq: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// dialectName returns the statement dialect of the configured driver.
func (c *Config) dialectName() string {
	if c.Dialect != "" {
		return c.Dialect
	}
	return sql.NormalizeDialect(c.Driver)
}

// Validate reports every problem of the config at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Driver == "" {
		errs = append(errs, errors.New("driver is required"))
	}
	if c.DSN == "" {
		errs = append(errs, errors.New("dsn is required"))
	}
	if c.Driver != "" && !dialect.Supported(c.dialectName()) {
		errs = append(errs, fmt.Errorf("unsupported dialect %q", c.dialectName()))
	}
	if _, err := style.ByName(c.Style); err != nil {
		errs = append(errs, err)
	}
	switch c.Inspector {
	case "", inspectorSelect, inspectorAtlas:
	default:
		errs = append(errs, fmt.Errorf("unknown inspector %q (want %s or %s)", c.Inspector, inspectorSelect, inspectorAtlas))
	}
	if c.SlowThreshold < 0 {
		errs = append(errs, errors.New("slow_threshold must not be negative"))
	}
	return errors.Join(errs...)
}
