package serialtcp

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the timeouts shared by all ports created from a factory.
type Config struct {
	// ConnectTimeout bounds connection establishment in Open.
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	// ResponseTimeout is the default read timeout and the upper bound applied
	// to the read timeout at Open.
	ResponseTimeout time.Duration `yaml:"response_timeout"`
}

// DefaultConfig returns a Config using DefaultConnectTimeout and
// DefaultResponseTimeout.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:  DefaultConnectTimeout,
		ResponseTimeout: DefaultResponseTimeout,
	}
}

// LoadConfig reads a YAML Config from path. Missing or zero fields keep their
// default values.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	return ParseConfig(b)
}

// ParseConfig decodes a YAML Config, e.g.
//
//	connect_timeout: 3s
//	response_timeout: 500ms
func ParseConfig(b []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate returns an error if any timeout is negative.
func (c Config) Validate() error {
	if c.ConnectTimeout < 0 {
		return errors.Errorf("connect_timeout must not be negative: %v",
			c.ConnectTimeout)
	}
	if c.ResponseTimeout < 0 {
		return errors.Errorf("response_timeout must not be negative: %v",
			c.ResponseTimeout)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ResponseTimeout == 0 {
		c.ResponseTimeout = DefaultResponseTimeout
	}
	return c
}

// boundReadTimeout applies ResponseTimeout as an upper bound to d. Zero is
// treated as unbounded and therefore becomes ResponseTimeout.
func (c Config) boundReadTimeout(d time.Duration) time.Duration {
	if c.ResponseTimeout <= 0 {
		return d
	}
	if d <= 0 || d > c.ResponseTimeout {
		return c.ResponseTimeout
	}
	return d
}
