package client

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/rdocmcp/mcpclient/logx"
	"github.com/rdocmcp/mcpclient/transport/stdio"
)

// Config describes a set of named MCP servers, in the conventional
// "mcpServers" JSON layout shared by MCP-aware tools:
//
//	{
//	  "mcpServers": {
//	    "docs": {
//	      "command": "rdoc-mcp-server",
//	      "args": ["--server-type", "stdio"],
//	      "env": {"RUST_LOG": "info"}
//	    }
//	  }
//	}
type Config struct {
	McpServers map[string]ServerConfig `json:"mcpServers"`
}

// ServerConfig describes how to launch one stdio server. Properties carries
// optional transport tuning, see TransportProperties.
type ServerConfig struct {
	Command    string                 `json:"command"`
	Args       []string               `json:"args,omitempty"`
	Env        map[string]string      `json:"env,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// TransportProperties are the recognized keys of ServerConfig.Properties.
type TransportProperties struct {
	GracePeriodSeconds int    `mapstructure:"gracePeriodSeconds"`
	MaxFrameBytes      int    `mapstructure:"maxFrameBytes"`
	WorkingDir         string `mapstructure:"workingDir"`
}

// ConfigProcessor can modify or extend a Config after loading, before it is
// validated. Typical uses are environment variable expansion or injecting
// servers discovered elsewhere.
type ConfigProcessor func(*Config) error

// LoadConfig reads and parses a server configuration file. Optional
// processors run in order on the parsed config before validation.
func LoadConfig(path string, processors ...ConfigProcessor) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, processors...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses a server configuration from JSON. Optional processors
// run in order on the parsed config before validation.
func ParseConfig(data []byte, processors ...ConfigProcessor) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	for _, processor := range processors {
		if err := processor(&cfg); err != nil {
			return nil, fmt.Errorf("config processor failed: %w", err)
		}
	}
	if len(cfg.McpServers) == 0 {
		return nil, fmt.Errorf("config defines no servers under \"mcpServers\"")
	}
	for name, server := range cfg.McpServers {
		if server.Command == "" {
			return nil, fmt.Errorf("server %q has no command", name)
		}
	}
	return &cfg, nil
}

// Server looks up a named server definition.
func (c *Config) Server(name string) (ServerConfig, error) {
	server, ok := c.McpServers[name]
	if !ok {
		return ServerConfig{}, fmt.Errorf("server %q not found in config", name)
	}
	return server, nil
}

// NewStdioClient builds an unconnected client for a configured stdio server.
// The caller still owns Connect and Close.
func NewStdioClient(cfg ServerConfig, logger logx.Logger, opts ...Option) (*Client, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("server config has no command")
	}
	if logger == nil {
		logger = logx.NewDefaultLogger()
	}

	var props TransportProperties
	if len(cfg.Properties) > 0 {
		if err := mapstructure.Decode(cfg.Properties, &props); err != nil {
			return nil, fmt.Errorf("invalid transport properties: %w", err)
		}
	}

	transportOpts := []stdio.Option{stdio.WithLogger(logger)}
	if len(cfg.Env) > 0 {
		transportOpts = append(transportOpts, stdio.WithEnv(flattenEnv(cfg.Env)))
	}
	if props.GracePeriodSeconds > 0 {
		transportOpts = append(transportOpts,
			stdio.WithGracePeriod(time.Duration(props.GracePeriodSeconds)*time.Second))
	}
	if props.MaxFrameBytes > 0 {
		transportOpts = append(transportOpts, stdio.WithMaxFrameSize(props.MaxFrameBytes))
	}
	if props.WorkingDir != "" {
		transportOpts = append(transportOpts, stdio.WithWorkingDir(props.WorkingDir))
	}

	transport := stdio.NewTransport(cfg.Command, cfg.Args, transportOpts...)

	clientOpts := append([]Option{WithLogger(logger)}, opts...)
	return NewClient(transport, clientOpts...), nil
}

// flattenEnv converts an env map into the "KEY=VALUE" form expected by the
// process launcher, in deterministic order.
func flattenEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
