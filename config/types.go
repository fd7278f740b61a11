package config

import (
	"fmt"
	"os"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
)

// Duration wraps time.Duration so it can be written as "5m" or "800ms" in
// both YAML and TOML files.
type Duration struct {
	time.Duration
}

// D is a shorthand constructor used by defaults and tests.
func D(d time.Duration) Duration {
	return Duration{Duration: d}
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// JSONSchema describes durations as strings for the generated schema.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		Description: "Go duration string, e.g. 1s, 800ms, 5m",
	}
}

// SourceConfig configures the Footprint Network API client.
type SourceConfig struct {
	BaseURL           string  `yaml:"base_url" jsonschema:"description=Base URL of the Footprint Network API"`
	Username          string  `yaml:"username" jsonschema:"description=Basic auth user name"`
	APIKey            string  `yaml:"api_key" jsonschema:"description=Basic auth API key"`
	MaxEntities       int     `yaml:"max_entities" jsonschema:"minimum=1,maximum=15,description=Number of countries taken from the roster"`
	RequestsPerSecond float64 `yaml:"requests_per_second" jsonschema:"minimum=0,description=Upstream request rate limit (0 disables)"`
}

// CacheConfig configures the local cache gateway.
type CacheConfig struct {
	Backend  string   `yaml:"backend" jsonschema:"enum=badger,enum=redis,description=Key-value backend holding the cached envelope"`
	Path     string   `yaml:"path,omitempty" jsonschema:"description=Directory of the badger database"`
	RedisURL string   `yaml:"redis_url,omitempty" jsonschema:"description=Redis URL when backend is redis"`
	Key      string   `yaml:"key" jsonschema:"description=Key the envelope is stored under"`
	TTL      Duration `yaml:"ttl" jsonschema:"description=How long a cached envelope stays valid"`
}

// RaceConfig tunes the presentation engine timings.
type RaceConfig struct {
	TickInterval   Duration `yaml:"tick_interval" jsonschema:"description=Period between year advances"`
	FrameInterval  Duration `yaml:"frame_interval" jsonschema:"description=Animation frame period"`
	DefaultMinYear int      `yaml:"default_min_year" jsonschema:"description=Lower year bound when the cache carries none"`
	DefaultMaxYear int      `yaml:"default_max_year" jsonschema:"description=Upper year bound when the cache carries none"`
	Smoothing      float64  `yaml:"smoothing" jsonschema:"exclusiveMinimum=0,maximum=1,description=Fraction of the scale gap closed per frame"`
	Epsilon        float64  `yaml:"epsilon" jsonschema:"exclusiveMinimum=0,description=Gap under which the scale snaps to its target"`
	Transition     Duration `yaml:"transition" jsonschema:"description=Duration of the rank reorder slide"`
	SettleDelay    Duration `yaml:"settle_delay" jsonschema:"description=Delay before the next reorder animation may start"`
}

// ServeConfig configures the websocket broadcast server.
type ServeConfig struct {
	Addr       string   `yaml:"addr" jsonschema:"description=Listen address"`
	PingPeriod Duration `yaml:"ping_period" jsonschema:"description=Interval between websocket pings"`
}

// Config is the parsed carbon.yml.
type Config struct {
	Version string       `yaml:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Source  SourceConfig `yaml:"source"`
	Cache   CacheConfig  `yaml:"cache"`
	Race    RaceConfig   `yaml:"race"`
	Serve   ServeConfig  `yaml:"serve"`

	// Extensions captures all other top-level keys (logging, tui, ...).
	Extensions map[string]interface{} `yaml:",inline" jsonschema:"-"`
}

// TUIConfig is the "tui" extension section.
type TUIConfig struct {
	Theme    string `yaml:"theme"`
	BarWidth int    `yaml:"bar_width"`
	// Keybindings maps a binding name (quit, help) to replacement keys.
	Keybindings map[string][]string `yaml:"keybindings"`
}

// Default values.
const (
	DefaultBaseURL     = "https://api.footprintnetwork.org/v1"
	DefaultUsername    = "asbarn"
	DefaultMaxEntities = 15
	DefaultCacheKey    = "carbon_data"
	DefaultMinYear     = 1970
	DefaultMaxYear     = 2020
	DefaultServeAddr   = ":8090"
	DefaultBarWidth    = 60
)

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}

	if c.Source.BaseURL == "" {
		c.Source.BaseURL = DefaultBaseURL
	}
	if c.Source.Username == "" {
		c.Source.Username = DefaultUsername
	}
	if c.Source.APIKey == "" {
		c.Source.APIKey = os.Getenv("FOOTPRINT_API_KEY")
	}
	if c.Source.MaxEntities == 0 {
		c.Source.MaxEntities = DefaultMaxEntities
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "badger"
	}
	if c.Cache.Key == "" {
		c.Cache.Key = DefaultCacheKey
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL = D(5 * time.Minute)
	}

	r := &c.Race
	if r.TickInterval.Duration == 0 {
		r.TickInterval = D(time.Second)
	}
	if r.FrameInterval.Duration == 0 {
		r.FrameInterval = D(16 * time.Millisecond)
	}
	if r.DefaultMinYear == 0 {
		r.DefaultMinYear = DefaultMinYear
	}
	if r.DefaultMaxYear == 0 {
		r.DefaultMaxYear = DefaultMaxYear
	}
	if r.Smoothing == 0 {
		r.Smoothing = 0.1
	}
	if r.Epsilon == 0 {
		r.Epsilon = 0.01
	}
	if r.Transition.Duration == 0 {
		r.Transition = D(800 * time.Millisecond)
	}
	if r.SettleDelay.Duration == 0 {
		r.SettleDelay = D(900 * time.Millisecond)
	}

	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	if c.Serve.PingPeriod.Duration == 0 {
		c.Serve.PingPeriod = D(54 * time.Second)
	}
}

// TUI decodes the "tui" extension with defaults applied.
func (c *Config) TUI() TUIConfig {
	var tuiCfg TUIConfig
	_ = c.UnmarshalExtension("tui", &tuiCfg)
	if tuiCfg.BarWidth <= 0 {
		tuiCfg.BarWidth = DefaultBarWidth
	}
	return tuiCfg
}

// UnmarshalExtension decodes a specific extension's configuration into the
// provided target struct. The target must be a pointer. A missing key
// leaves the target zero-valued.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
