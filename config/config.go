// Copyright 2026 Converter Systems LLC. All rights reserved.

// Package config loads the settings shared by the uabrowse and uapoll tools.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/awcullen/uatools/browse"
	"github.com/awcullen/uatools/poll"
	"github.com/awcullen/uatools/session"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults for the SRTM test bench.
const (
	DefaultEndpoint        = "opc.tcp://192.168.0.117:4841"
	DefaultOutput          = "opcua_nodes.csv"
	DefaultNodeID          = "ns=2;s=SRTM.FPGA_temp"
	DefaultApplicationName = "uatools"
)

// Config holds the connection settings and the settings of each tool.
type Config struct {
	Endpoint            string        `yaml:"endpoint"`
	SecurityPolicy      string        `yaml:"security_policy"`
	Username            string        `yaml:"username"`
	Password            string        `yaml:"password"`
	ClientCertificate   string        `yaml:"client_certificate"`
	ClientKey           string        `yaml:"client_key"`
	TrustedCertificates string        `yaml:"trusted_certificates"`
	InsecureSkipVerify  *bool         `yaml:"insecure_skip_verify"`
	ApplicationName     string        `yaml:"application_name"`
	SessionTimeout      time.Duration `yaml:"session_timeout"`
	ConnectTimeout      time.Duration `yaml:"connect_timeout"`
	Trace               bool          `yaml:"trace"`
	Browse              BrowseConfig  `yaml:"browse"`
	Poll                PollConfig    `yaml:"poll"`
	Log                 LogConfig     `yaml:"log"`
}

// BrowseConfig configures the address space export.
type BrowseConfig struct {
	Output    string `yaml:"output"`
	Format    string `yaml:"format"`
	MaxDepth  *int   `yaml:"max_depth"`
	StartNode string `yaml:"start_node"`
	Filter    string `yaml:"filter"`
}

// PollConfig configures the sensor poller.
type PollConfig struct {
	NodeID   string        `yaml:"node_id"`
	Label    string        `yaml:"label"`
	Count    int           `yaml:"count"`
	Interval time.Duration `yaml:"interval"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the yaml file at path, fills in defaults and validates the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.SecurityPolicy == "" {
		c.SecurityPolicy = session.PolicyNone
	}
	if c.InsecureSkipVerify == nil {
		skip := true
		c.InsecureSkipVerify = &skip
	}
	if c.ApplicationName == "" {
		c.ApplicationName = DefaultApplicationName
	}
	if c.Browse.Output == "" {
		c.Browse.Output = DefaultOutput
	}
	if c.Browse.MaxDepth == nil {
		depth := browse.DefaultMaxDepth
		c.Browse.MaxDepth = &depth
	}
	if c.Browse.Filter == "" {
		c.Browse.Filter = browse.DefaultFilter
	}
	if c.Poll.NodeID == "" {
		c.Poll.NodeID = DefaultNodeID
	}
	if c.Poll.Count == 0 {
		c.Poll.Count = poll.DefaultCount
	}
	if c.Poll.Interval == 0 {
		c.Poll.Interval = poll.DefaultInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for values the tools cannot use.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Endpoint, "opc.tcp://") {
		return errors.Errorf("endpoint %q must start with opc.tcp://", c.Endpoint)
	}
	if !session.IsKnownPolicy(c.SecurityPolicy) {
		return errors.Errorf("unknown security_policy %q", c.SecurityPolicy)
	}
	if (c.ClientCertificate == "") != (c.ClientKey == "") {
		return errors.New("client_certificate and client_key must be set together")
	}
	if c.Browse.MaxDepth != nil && *c.Browse.MaxDepth < 0 {
		return errors.Errorf("browse.max_depth must not be negative, got %d", *c.Browse.MaxDepth)
	}
	if _, err := browse.FormatOf(c.Browse.Output, c.Browse.Format); err != nil {
		return errors.Wrap(err, "browse.format")
	}
	if c.Poll.Count < 1 {
		return errors.Errorf("poll.count must be at least 1, got %d", c.Poll.Count)
	}
	if c.Poll.Interval <= 0 {
		return errors.Errorf("poll.interval must be positive, got %s", c.Poll.Interval)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}

// SessionOptions returns the options for opening a session.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Endpoint:                c.Endpoint,
		SecurityPolicy:          c.SecurityPolicy,
		UserName:                c.Username,
		Password:                c.Password,
		CertificateFile:         c.ClientCertificate,
		KeyFile:                 c.ClientKey,
		TrustedCertificatesFile: c.TrustedCertificates,
		InsecureSkipVerify:      c.InsecureSkipVerify == nil || *c.InsecureSkipVerify,
		ApplicationName:         c.ApplicationName,
		SessionTimeout:          c.SessionTimeout,
		ConnectTimeout:          c.ConnectTimeout,
		Trace:                   c.Trace,
	}
}

// Depth returns the depth limit of the walk.
func (b BrowseConfig) Depth() int {
	if b.MaxDepth == nil {
		return browse.DefaultMaxDepth
	}
	return *b.MaxDepth
}
