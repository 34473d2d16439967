package ops

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGBA is a straight-alpha float color property. In graph files it is
// written either as a list of 3 or 4 numbers in [0,1] or as a string:
// "#rgb", "#rrggbb", "#rrggbbaa" or one of the names black, white, red,
// green, blue, gray and transparent.
type RGBA [4]float32

// ErrBadColor is returned for a color that cannot be parsed.
var ErrBadColor = errors.New("ops: bad color")

var namedColors = map[string]RGBA{
	"black":       {0, 0, 0, 1},
	"white":       {1, 1, 1, 1},
	"red":         {1, 0, 0, 1},
	"green":       {0, 1, 0, 1},
	"blue":        {0, 0, 1, 1},
	"gray":        {0.5, 0.5, 0.5, 1},
	"transparent": {0, 0, 0, 0},
}

// ParseRGBA parses a color string.
func ParseRGBA(s string) (RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return RGBA{}, fmt.Errorf("%w %q", ErrBadColor, s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return RGBA{}, fmt.Errorf("%w %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w %q", ErrBadColor, s)
	}
	var c RGBA
	for i := range c {
		c[i] = float32((v>>(24-8*i))&0xff) / 255
	}
	return c, nil
}

// UnmarshalYAML accepts a color string or a list of components.
func (c *RGBA) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		v, err := ParseRGBA(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*c = v
		return nil
	}
	var v []float32
	if err := n.Decode(&v); err != nil {
		return err
	}
	switch len(v) {
	case 3:
		*c = RGBA{v[0], v[1], v[2], 1}
	case 4:
		*c = RGBA{v[0], v[1], v[2], v[3]}
	default:
		return fmt.Errorf("line %d: %w: want 3 or 4 components, got %d", n.Line, ErrBadColor, len(v))
	}
	return nil
}

// MarshalYAML writes the color as a list of four components.
func (c RGBA) MarshalYAML() (any, error) {
	return []float32{c[0], c[1], c[2], c[3]}, nil
}

func (c RGBA) slice() []float32 { return c[:] }
