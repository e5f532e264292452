package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/lra-cloth/cloth"
	"github.com/lixenwraith/lra-cloth/parameter"
)

// EnvPrefix namespaces environment overrides
const EnvPrefix = "LRA_CLOTH_"

// Config is the on-disk configuration shared by every program
type Config struct {
	Cloth  ClothConfig  `toml:"cloth"`
	Solver SolverConfig `toml:"solver"`
	Stream StreamConfig `toml:"stream"`
	Audio  AudioConfig  `toml:"audio"`

	// Keys holds raw key binding overrides, parsed by the input package
	Keys        map[string]string `toml:"keys"`
	SpecialKeys map[string]string `toml:"special_keys"`
}

// ClothConfig is the topology, applied on scene (re)build
type ClothConfig struct {
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	Spacing float64 `toml:"spacing"`
	Pin     string  `toml:"pin"`
}

type SolverConfig struct {
	Iterations int     `toml:"iterations"`
	UseLRA     bool    `toml:"use_lra"`
	LRASlack   float64 `toml:"lra_slack"`
}

type StreamConfig struct {
	Addr        string `toml:"addr"`
	TickHz      int    `toml:"tick_hz"`
	BroadcastHz int    `toml:"broadcast_hz"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Cloth: ClothConfig{
			Width:   parameter.ClothWidth,
			Height:  parameter.ClothHeight,
			Spacing: parameter.ClothSpacing,
			Pin:     "corners",
		},
		Solver: SolverConfig{
			Iterations: parameter.ClothIterations,
			UseLRA:     true,
			LRASlack:   parameter.ClothLRASlack,
		},
		Stream: StreamConfig{
			Addr:        ":8080",
			TickHz:      parameter.StreamTickHz,
			BroadcastHz: parameter.StreamBroadcastHz,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.5,
		},
	}
}

// Load reads defaults, then the TOML file at path (skipped when empty or missing),
// then a .env file if present, then LRA_CLOTH_* environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config read: %w", err)
		default:
			if err := Parse(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}

	// Optional, absent .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over cfg, keeping values for absent keys
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("toml decode: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if _, err := cloth.PinRuleByName(c.Cloth.Pin); err != nil {
		return fmt.Errorf("cloth.pin: %w", err)
	}
	if err := c.ClothParams().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Stream.TickHz <= 0 || c.Stream.BroadcastHz <= 0 {
		return fmt.Errorf("stream rates must be positive, got tick %d broadcast %d", c.Stream.TickHz, c.Stream.BroadcastHz)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be within [0, 1], got %g", c.Audio.Volume)
	}
	return nil
}

// ClothParams converts to solver parameters, fixed values come from the defaults
func (c *Config) ClothParams() cloth.Params {
	p := cloth.DefaultParams()
	p.Width = c.Cloth.Width
	p.Height = c.Cloth.Height
	p.Spacing = c.Cloth.Spacing
	p.Iterations = c.Solver.Iterations
	p.UseLRA = c.Solver.UseLRA
	p.LRASlack = c.Solver.LRASlack
	return p
}

// WorldOptions returns topology options implied by the configuration
func (c *Config) WorldOptions() []cloth.Option {
	rule, err := cloth.PinRuleByName(c.Cloth.Pin)
	if err != nil {
		return nil
	}
	return []cloth.Option{cloth.WithPinRule(rule)}
}

// applyEnv overrides fields from LRA_CLOTH_* variables
func (c *Config) applyEnv() error {
	ints := map[string]*int{
		"WIDTH":        &c.Cloth.Width,
		"HEIGHT":       &c.Cloth.Height,
		"ITERATIONS":   &c.Solver.Iterations,
		"TICK_HZ":      &c.Stream.TickHz,
		"BROADCAST_HZ": &c.Stream.BroadcastHz,
	}
	floats := map[string]*float64{
		"SPACING":      &c.Cloth.Spacing,
		"LRA_SLACK":    &c.Solver.LRASlack,
		"AUDIO_VOLUME": &c.Audio.Volume,
	}
	bools := map[string]*bool{
		"USE_LRA":       &c.Solver.UseLRA,
		"AUDIO_ENABLED": &c.Audio.Enabled,
	}
	strs := map[string]*string{
		"PIN":  &c.Cloth.Pin,
		"ADDR": &c.Stream.Addr,
	}

	for name, dst := range ints {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}
	for name, dst := range floats {
		if v, ok := lookup(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = f
		}
	}
	for name, dst := range bools {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = b
		}
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
