package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the service configuration. It can
// be populated from JSON or YAML. Fields left out of a document keep the values
// from DefaultConfig.
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Events  EventsConfig  `json:"events" yaml:"events"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

type HTTPConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// EventsConfig controls post.created notifications.
type EventsConfig struct {
	Enabled     bool `json:"enabled" yaml:"enabled"`
	QueueBuffer int  `json:"queueBuffer" yaml:"queueBuffer"`
}

type TracingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// OutputFile receives stdout exporter output; empty means os.Stdout
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// SlogLevel parses Level (debug, info, warn, error).
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return level, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// DefaultConfig returns a Config populated with default values. Callers may
// modify the returned struct before passing it to WithConfig.
func DefaultConfig() *Config {
	return &Config{
		HTTP:   HTTPConfig{Addr: ":8080"},
		Events: EventsConfig{Enabled: true, QueueBuffer: 100},
		Log:    LogConfig{Level: "info"},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, fmt.Errorf("http.addr must not be empty"))
	}
	if c.Events.Enabled && c.Events.QueueBuffer <= 0 {
		errs = append(errs, fmt.Errorf("events.queueBuffer must be > 0"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadConfig downloads a YAML (or JSON) document from URL and overlays it on DefaultConfig.
// Storage options (for example an embed.FS) are passed through to the download.
func LoadConfig(ctx context.Context, fs afs.Service, URL string, options ...storage.Option) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
