// Package config loads the client configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/omochice/roomchat/pkg/protocol"
)

// EnvPrefix prefixes environment overrides, e.g. ROOMCHAT_SERVER_HOST.
const EnvPrefix = "ROOMCHAT"

// Transport names.
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "ws"
)

// Config is the typed client configuration.
type Config struct {
	Server      ServerConfig `mapstructure:"server"`
	Transport   string       `mapstructure:"transport"`
	WSPath      string       `mapstructure:"ws_path"`
	ChunkSize   int          `mapstructure:"chunk_size"`
	Decode      string       `mapstructure:"decode"`
	Triggers    []string     `mapstructure:"triggers"`
	LogLevel    string       `mapstructure:"log_level"`
	MetricsAddr string       `mapstructure:"metrics_addr"`
}

// ServerConfig is the chat server endpoint.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5555,
		},
		Transport: TransportTCP,
		WSPath:    "/",
		ChunkSize: protocol.DefaultChunkSize,
		Decode:    protocol.DecodeStrict.String(),
		Triggers:  protocol.DefaultTriggers(),
		LogLevel:  "info",
	}
}

// Load reads configuration from defaults, the optional file at path,
// ROOMCHAT_* environment variables and flags, in increasing precedence.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("transport", d.Transport)
	v.SetDefault("ws_path", d.WSPath)
	v.SetDefault("chunk_size", d.ChunkSize)
	v.SetDefault("decode", d.Decode)
	v.SetDefault("triggers", d.Triggers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("metrics_addr", d.MetricsAddr)
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"host":         "server.host",
	"port":         "server.port",
	"transport":    "transport",
	"ws-path":      "ws_path",
	"chunk-size":   "chunk_size",
	"decode":       "decode",
	"log-level":    "log_level",
	"metrics-addr": "metrics_addr",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Transport {
	case TransportTCP, TransportWebSocket:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if _, err := protocol.ParseDecodePolicy(c.Decode); err != nil {
		return err
	}
	for i, t := range c.Triggers {
		if t == "" {
			return fmt.Errorf("triggers[%d] is empty", i)
		}
	}
	return nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// DecodePolicy returns the parsed decode setting.
func (c *Config) DecodePolicy() protocol.DecodePolicy {
	p, _ := protocol.ParseDecodePolicy(c.Decode)
	return p
}

// TriggerSet returns the configured membership notices.
func (c *Config) TriggerSet() protocol.TriggerSet {
	return protocol.TriggerSet(c.Triggers)
}
