package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/orbitals/internal/orbital"
	"github.com/san-kum/orbitals/internal/palette"
	"github.com/san-kum/orbitals/internal/pipeline"
	"gopkg.in/yaml.v3"
)

var ErrInvalidColor = errors.New("config: invalid color")

type Config struct {
	SampleCount   int              `yaml:"sample_count"`
	MaxRadius     float64          `yaml:"max_radius"`
	Seed          int64            `yaml:"seed"`
	Orbital       orbital.Selector `yaml:"orbital"`
	Threshold     float64          `yaml:"threshold"`
	Coloring      string           `yaml:"coloring"`
	PositiveColor HexColor         `yaml:"positive_color"`
	NegativeColor HexColor         `yaml:"negative_color"`
	PointSize     float64          `yaml:"point_size"`
	RotationRate  float64          `yaml:"rotation_rate"`
}

func DefaultConfig() *Config {
	return &Config{
		SampleCount:   pipeline.DefaultSampleCount,
		MaxRadius:     pipeline.DefaultMaxRadius,
		Seed:          1,
		Orbital:       orbital.Orbital3dz2.Selector(),
		Threshold:     pipeline.DefaultThreshold,
		Coloring:      palette.Exponential.String(),
		PositiveColor: pipeline.DefaultPositiveColor,
		NegativeColor: pipeline.DefaultNegativeColor,
		PointSize:     pipeline.DefaultPointSize,
		RotationRate:  pipeline.DefaultRotationRate,
	}
}

// Load reads a YAML file over the defaults, so omitted fields keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base. Fields the file omits keep
// base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file form into a validated parameter set. A zero seed
// picks one from the clock.
func (c *Config) Params() (pipeline.Params, error) {
	mode, err := palette.ParseMode(c.Coloring)
	if err != nil {
		return pipeline.Params{}, err
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	p := pipeline.Params{
		SampleCount:   c.SampleCount,
		MaxRadius:     c.MaxRadius,
		Seed:          seed,
		Selector:      c.Orbital,
		Threshold:     c.Threshold,
		Mode:          mode,
		PositiveColor: uint32(c.PositiveColor),
		NegativeColor: uint32(c.NegativeColor),
		PointSize:     c.PointSize,
		RotationRate:  c.RotationRate,
	}
	if err := p.Validate(); err != nil {
		return pipeline.Params{}, err
	}
	return p, nil
}

// FromParams is the inverse of Params.
func FromParams(p pipeline.Params) *Config {
	return &Config{
		SampleCount:   p.SampleCount,
		MaxRadius:     p.MaxRadius,
		Seed:          p.Seed,
		Orbital:       p.Selector,
		Threshold:     p.Threshold,
		Coloring:      p.Mode.String(),
		PositiveColor: HexColor(p.PositiveColor),
		NegativeColor: HexColor(p.NegativeColor),
		PointSize:     p.PointSize,
		RotationRate:  p.RotationRate,
	}
}

// HexColor is a 0xRRGGBB color. In YAML it may be written as an integer
// (0xff0000) or a string ("#ff0000", "0xff0000") and is always written back
// as "#rrggbb".
type HexColor uint32

func ParseHexColor(s string) (HexColor, error) {
	digits := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(digits, "#"):
		digits = digits[1:]
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		digits = digits[2:]
	}
	if len(digits) != 6 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return HexColor(v), nil
}

func (h HexColor) String() string { return fmt.Sprintf("#%06x", uint32(h)) }

func (h HexColor) MarshalYAML() (interface{}, error) { return h.String(), nil }

func (h *HexColor) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a scalar", ErrInvalidColor, n.Line)
	}
	if n.ShortTag() == "!!int" {
		var v int64
		if err := n.Decode(&v); err != nil {
			return err
		}
		if v < 0 || v > 0xffffff {
			return fmt.Errorf("%w: line %d: %#x out of range", ErrInvalidColor, n.Line, v)
		}
		*h = HexColor(v)
		return nil
	}
	v, err := ParseHexColor(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*h = v
	return nil
}
