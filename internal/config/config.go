package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. Its absence is not an error.
const DefaultPath = "rayconv.yaml"

type Config struct {
	TestConfig TestConfig     `yaml:"test_config"`
	Resolver   ResolverConfig `yaml:"resolver"`
	Fetch      FetchConfig    `yaml:"fetch"`
}

// TestConfig controls the fixed parts of a generated test configuration.
type TestConfig struct {
	LogLevel        string   `yaml:"log_level"`
	Listen          string   `yaml:"listen"`
	InboundTag      string   `yaml:"inbound_tag"`
	InboundProtocol string   `yaml:"inbound_protocol"`
	DNSServers      []string `yaml:"dns_servers"`
}

type ResolverConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	IPv4Only bool          `yaml:"ipv4_only"`
}

type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Proxy   string        `yaml:"proxy"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		TestConfig: TestConfig{
			LogLevel:        "warning",
			Listen:          "127.0.0.1",
			InboundTag:      "socks",
			InboundProtocol: "socks",
			DNSServers:      []string{"8.8.8.8", "1.1.1.1"},
		},
		Resolver: ResolverConfig{
			Timeout:  5 * time.Second,
			IPv4Only: true,
		},
		Fetch: FetchConfig{
			Timeout: 120 * time.Second,
		},
	}
}

func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Validate
	def := Default()
	if len(cfg.TestConfig.DNSServers) == 0 {
		cfg.TestConfig.DNSServers = def.TestConfig.DNSServers
	}
	if cfg.TestConfig.Listen == "" {
		cfg.TestConfig.Listen = def.TestConfig.Listen
	}
	if cfg.TestConfig.InboundProtocol == "" {
		cfg.TestConfig.InboundProtocol = def.TestConfig.InboundProtocol
	}
	if cfg.Resolver.Timeout < 0 {
		return nil, fmt.Errorf("resolver.timeout must not be negative")
	}
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = def.Fetch.Timeout
	}

	return cfg, nil
}
