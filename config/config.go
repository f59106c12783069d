// Package config loads takeoff configuration from YAML.
//
// Config file locations (priority order):
//  1. $TAKEOFF_CONFIG
//  2. ./takeoff.yaml
//  3. ~/.config/takeoff/config.yaml
//
// Missing values take their defaults. ANTHROPIC_API_KEY and
// TAKEOFF_LLM_MODEL override the llm section.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/takeoff/centerline"
	"github.com/tsawler/takeoff/llm"
	"github.com/tsawler/takeoff/measure"
	"github.com/tsawler/takeoff/render"
	"github.com/tsawler/takeoff/rooms"
	"github.com/tsawler/takeoff/scale"
	"github.com/tsawler/takeoff/snap"
	"github.com/tsawler/takeoff/vectors"
	"github.com/tsawler/takeoff/walls"
)

// Config is the complete configuration file.
type Config struct {
	Walls      WallsConfig      `yaml:"walls"`
	Snap       SnapConfig       `yaml:"snap"`
	Centerline CenterlineConfig `yaml:"centerline"`
	Rooms      RoomsConfig      `yaml:"rooms"`
	Scale      ScaleConfig      `yaml:"scale"`
	LLM        LLMConfig        `yaml:"llm"`
	Store      StoreConfig      `yaml:"store"`
	Render     RenderConfig     `yaml:"render"`
}

// WallsConfig tunes wall detection. Lengths are in points.
type WallsConfig struct {
	MinWidth        float64 `yaml:"min_width,omitempty"`
	MinLength       float64 `yaml:"min_length,omitempty"`
	AngleTolerance  float64 `yaml:"angle_tolerance,omitempty"`
	MaxDarkColorSum float64 `yaml:"max_dark_color_sum,omitempty"`
	OutlierIQR      float64 `yaml:"outlier_iqr_factor,omitempty"`
	PairMinGap      float64 `yaml:"pair_min_gap,omitempty"`
	PairMaxGap      float64 `yaml:"pair_max_gap,omitempty"`
}

// SnapConfig tunes endpoint snapping.
type SnapConfig struct {
	Tolerance     float64 `yaml:"tolerance,omitempty"`
	GridThreshold int     `yaml:"grid_threshold,omitempty"`
}

// CenterlineConfig tunes centerline reconstruction.
type CenterlineConfig struct {
	// Nil means enabled
	Enabled      *bool   `yaml:"enabled,omitempty"`
	MinGap       float64 `yaml:"min_gap,omitempty"`
	MaxGap       float64 `yaml:"max_gap,omitempty"`
	MaxDoorGap   float64 `yaml:"max_door_gap,omitempty"`
	MaxExtension float64 `yaml:"max_extension,omitempty"`
}

// RoomsConfig tunes room detection and labeling.
type RoomsConfig struct {
	MinArea          float64 `yaml:"min_area,omitempty"`
	MaxPageFraction  float64 `yaml:"max_page_fraction,omitempty"`
	MaxLabelDistance float64 `yaml:"max_label_distance,omitempty"`

	// Extra room names mapped to room types, e.g. "GREAT ROOM: living_room"
	Labels map[string]string `yaml:"labels,omitempty"`
}

// ScaleConfig tunes scale detection.
type ScaleConfig struct {
	CalibrationRadius float64 `yaml:"calibration_radius,omitempty"`
}

// LLMConfig configures the vision model client.
type LLMConfig struct {
	Endpoint    string   `yaml:"endpoint,omitempty"`
	APIKey      string   `yaml:"api_key,omitempty"`
	Model       string   `yaml:"model,omitempty"`
	Timeout     Duration `yaml:"timeout,omitempty"`
	MaxTokens   int      `yaml:"max_tokens,omitempty"`
	MaxAttempts int      `yaml:"max_attempts,omitempty"`
	Proxy       string   `yaml:"proxy,omitempty"`
}

// StoreConfig locates the run history database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// RenderConfig controls the page image sent to the model.
type RenderConfig struct {
	DPI          float64 `yaml:"dpi,omitempty"`
	MaxDimension int     `yaml:"max_dimension,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load finds and loads the config file, or returns defaults if none found.
// The second return value is the file used.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes a YAML config and applies defaults and environment
// overrides.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultConfig returns the defaults of every stage.
func DefaultConfig() *Config {
	w := walls.DefaultConfig()
	sn := snap.DefaultConfig()
	cl := centerline.DefaultConfig()
	r := rooms.DefaultConfig()
	sc := scale.DefaultConfig()
	l := llm.DefaultConfig()
	rd := render.DefaultConfig()

	return &Config{
		Walls: WallsConfig{
			MinWidth:        w.MinWidth,
			MinLength:       w.MinLength,
			AngleTolerance:  w.AngleTolerance,
			MaxDarkColorSum: w.MaxDarkColorSum,
			OutlierIQR:      w.OutlierIQRFactor,
			PairMinGap:      w.PairMinGap,
			PairMaxGap:      w.PairMaxGap,
		},
		Snap: SnapConfig{Tolerance: sn.Tolerance, GridThreshold: sn.GridThreshold},
		Centerline: CenterlineConfig{
			MinGap:       cl.MinGap,
			MaxGap:       cl.MaxGap,
			MaxDoorGap:   cl.MaxDoorGap,
			MaxExtension: cl.MaxExtension,
		},
		Rooms: RoomsConfig{
			MinArea:          r.MinArea,
			MaxPageFraction:  r.MaxPageFraction,
			MaxLabelDistance: r.MaxLabelDistance,
		},
		Scale: ScaleConfig{CalibrationRadius: sc.CalibrationRadius},
		LLM: LLMConfig{
			Endpoint:    l.Endpoint,
			Model:       l.Model,
			Timeout:     Duration(l.Timeout),
			MaxTokens:   l.MaxTokens,
			MaxAttempts: l.MaxAttempts,
		},
		Store:  StoreConfig{Path: DefaultDatabasePath()},
		Render: RenderConfig{DPI: rd.DPI, MaxDimension: rd.MaxDimension},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()

	setFloat(&c.Walls.MinWidth, d.Walls.MinWidth)
	setFloat(&c.Walls.MinLength, d.Walls.MinLength)
	setFloat(&c.Walls.AngleTolerance, d.Walls.AngleTolerance)
	setFloat(&c.Walls.MaxDarkColorSum, d.Walls.MaxDarkColorSum)
	setFloat(&c.Walls.OutlierIQR, d.Walls.OutlierIQR)
	setFloat(&c.Walls.PairMinGap, d.Walls.PairMinGap)
	setFloat(&c.Walls.PairMaxGap, d.Walls.PairMaxGap)

	setFloat(&c.Snap.Tolerance, d.Snap.Tolerance)
	setInt(&c.Snap.GridThreshold, d.Snap.GridThreshold)

	setFloat(&c.Centerline.MinGap, d.Centerline.MinGap)
	setFloat(&c.Centerline.MaxGap, d.Centerline.MaxGap)
	setFloat(&c.Centerline.MaxDoorGap, d.Centerline.MaxDoorGap)
	setFloat(&c.Centerline.MaxExtension, d.Centerline.MaxExtension)

	setFloat(&c.Rooms.MinArea, d.Rooms.MinArea)
	setFloat(&c.Rooms.MaxPageFraction, d.Rooms.MaxPageFraction)
	setFloat(&c.Rooms.MaxLabelDistance, d.Rooms.MaxLabelDistance)

	setFloat(&c.Scale.CalibrationRadius, d.Scale.CalibrationRadius)

	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = d.LLM.Endpoint
	}
	if c.LLM.Model == "" {
		c.LLM.Model = d.LLM.Model
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = d.LLM.Timeout
	}
	setInt(&c.LLM.MaxTokens, d.LLM.MaxTokens)
	setInt(&c.LLM.MaxAttempts, d.LLM.MaxAttempts)

	if c.Store.Path == "" {
		c.Store.Path = d.Store.Path
	}

	setFloat(&c.Render.DPI, d.Render.DPI)
	setInt(&c.Render.MaxDimension, d.Render.MaxDimension)
}

func setFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// applyEnv applies environment overrides
func (c *Config) applyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv(EnvModel); model != "" {
		c.LLM.Model = model
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Walls.PairMinGap >= c.Walls.PairMaxGap {
		return fmt.Errorf("invalid config: walls.pair_min_gap (%g) must be below pair_max_gap (%g)",
			c.Walls.PairMinGap, c.Walls.PairMaxGap)
	}
	if c.Centerline.MinGap >= c.Centerline.MaxGap {
		return fmt.Errorf("invalid config: centerline.min_gap (%g) must be below max_gap (%g)",
			c.Centerline.MinGap, c.Centerline.MaxGap)
	}
	if c.Rooms.MaxPageFraction > 1 {
		return fmt.Errorf("invalid config: rooms.max_page_fraction (%g) must not exceed 1", c.Rooms.MaxPageFraction)
	}
	for label, t := range c.Rooms.Labels {
		if !knownRoomType(t) {
			return fmt.Errorf("invalid config: room label %q has unknown type %q", label, t)
		}
	}
	return nil
}

func knownRoomType(s string) bool {
	for _, t := range rooms.AllTypes() {
		if string(t) == strings.ToLower(s) {
			return true
		}
	}
	return false
}

// UseCenterlines reports whether centerline reconstruction is enabled.
func (c *Config) UseCenterlines() bool {
	return c.Centerline.Enabled == nil || *c.Centerline.Enabled
}

// Measure converts the geometry sections into a pipeline configuration.
func (c *Config) Measure() measure.Config {
	w := walls.DefaultConfig()
	w.MinWidth = c.Walls.MinWidth
	w.MinLength = c.Walls.MinLength
	w.AngleTolerance = c.Walls.AngleTolerance
	w.MaxDarkColorSum = c.Walls.MaxDarkColorSum
	w.OutlierIQRFactor = c.Walls.OutlierIQR
	w.PairMinGap = c.Walls.PairMinGap
	w.PairMaxGap = c.Walls.PairMaxGap

	cl := centerline.DefaultConfig()
	cl.MinGap = c.Centerline.MinGap
	cl.MaxGap = c.Centerline.MaxGap
	cl.MaxDoorGap = c.Centerline.MaxDoorGap
	cl.MaxExtension = c.Centerline.MaxExtension

	r := rooms.DefaultConfig()
	r.MinArea = c.Rooms.MinArea
	r.MaxPageFraction = c.Rooms.MaxPageFraction
	r.MaxLabelDistance = c.Rooms.MaxLabelDistance
	r.Snap = snap.Config{Tolerance: c.Snap.Tolerance, GridThreshold: c.Snap.GridThreshold}
	for label, t := range c.Rooms.Labels {
		r.Vocabulary[strings.Join(strings.Fields(strings.ToUpper(label)), " ")] = rooms.RoomType(strings.ToLower(t))
	}

	sc := scale.DefaultConfig()
	sc.CalibrationRadius = c.Scale.CalibrationRadius

	return measure.Config{
		Vectors:        vectors.DefaultConfig(),
		Walls:          w,
		Centerline:     cl,
		Rooms:          r,
		Scale:          sc,
		UseCenterlines: c.UseCenterlines(),
	}
}

// Client converts the llm section into a client configuration.
func (c *Config) Client() llm.Config {
	return llm.Config{
		Endpoint:    c.LLM.Endpoint,
		APIKey:      c.LLM.APIKey,
		Model:       c.LLM.Model,
		Timeout:     c.LLM.Timeout.Duration(),
		MaxTokens:   c.LLM.MaxTokens,
		MaxAttempts: c.LLM.MaxAttempts,
		Proxy:       c.LLM.Proxy,
	}
}

// Renderer converts the render section into a renderer configuration.
func (c *Config) Renderer() render.Config {
	r := render.DefaultConfig()
	r.DPI = c.Render.DPI
	r.MaxDimension = c.Render.MaxDimension
	return r
}
