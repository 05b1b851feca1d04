// Package config loads the master server configuration: defaults, an
// optional YAML file, and an environment overlay on top. The user service
// endpoint comes from the environment only (USERSERVICE_HOST and
// USERSERVICE_PORT are required).
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Master holds all configuration for the master server.
type Master struct {
	// Network
	BindAddress   string `yaml:"bind_address" env:"BIND_ADDRESS"`
	PortMaster    uint16 `yaml:"port_master" env:"PORT_MASTER"`
	PortHolepunch uint16 `yaml:"port_holepunch" env:"PORT_HOLEPUNCH"`

	// Upstream user service; both parts are required.
	UserService UserServiceConfig `yaml:"user_service"`

	// Packet dumping
	LogPackets bool   `yaml:"log_packets" env:"LOG_PACKETS"`
	DumpDir    string `yaml:"dump_dir" env:"DUMP_DIR"`

	// Observability; empty address disables the metrics listener.
	MetricsAddr string `yaml:"metrics_addr" env:"METRICS_ADDR"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`

	// Channel directory, fixed at startup.
	ChannelServers []ChannelServerConfig `yaml:"channel_servers"`
}

// UserServiceConfig is the upstream HTTP endpoint owning account data.
type UserServiceConfig struct {
	Host string `yaml:"host" env:"USERSERVICE_HOST"`
	Port uint16 `yaml:"port" env:"USERSERVICE_PORT"`
}

// BaseURL returns the service base URL.
func (u UserServiceConfig) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", u.Host, u.Port)
}

// ChannelServerConfig describes one channel server in the directory.
type ChannelServerConfig struct {
	Name     string   `yaml:"name"`
	Channels []string `yaml:"channels"`
}

// DefaultMaster returns Master config with the spec defaults.
func DefaultMaster() Master {
	return Master{
		BindAddress:   "0.0.0.0",
		PortMaster:    30001,
		PortHolepunch: 30002,
		DumpDir:       "packets",
		LogLevel:      "info",
		ChannelServers: []ChannelServerConfig{
			{
				Name:     "Master Server",
				Channels: []string{"Channel 1", "Channel 2", "Channel 3"},
			},
		},
	}
}

// LoadMaster loads master server config: defaults, then the YAML file when
// it exists, then the environment on top. It fails when the user service
// endpoint is not fully configured.
func LoadMaster(path string) (Master, error) {
	cfg := DefaultMaster()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.UserService.Host == "" || cfg.UserService.Port == 0 {
		return cfg, fmt.Errorf("user service endpoint not configured: set USERSERVICE_HOST and USERSERVICE_PORT")
	}
	if len(cfg.ChannelServers) == 0 {
		return cfg, fmt.Errorf("channel directory is empty")
	}

	return cfg, nil
}
