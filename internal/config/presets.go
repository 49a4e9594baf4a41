package config

import (
	"maps"
	"slices"

	"github.com/san-kum/orbitals/internal/palette"
)

var Presets = map[string]*Config{
	"preview": preset(func(c *Config) {
		c.SampleCount = 100000
		c.Threshold = 0.9
	}),
	"default": preset(func(c *Config) {}),
	"detail": preset(func(c *Config) {
		c.SampleCount = 4000000
		c.Threshold = 0.98
	}),
	"linear": preset(func(c *Config) {
		c.Coloring = palette.Linear.String()
	}),
	"flat": preset(func(c *Config) {
		c.SampleCount = 200000
		c.Threshold = 0.8
		c.Coloring = palette.Constant.String()
	}),
}

func preset(fn func(c *Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
