// Package tile implements the planar pixel storage of pixflow.
//
// A Tile is a fixed block of channel-planar samples covering a rectangle in
// canvas coordinates, described by a Model (color space × channel type, with
// or without alpha). Tiles are reference counted: the producing operation
// writes a tile once, then consumers read it through Iterators, each of which
// holds its own reference until closed. When the last reference is dropped
// the tile returns to its Pool.
package tile

import (
	"errors"
	"strings"
)

// ColorSpace identifies the color channels of a model.
type ColorSpace uint8

const (
	// SpaceGray has a single luminance channel.
	SpaceGray ColorSpace = iota

	// SpaceRGB has red, green and blue channels.
	SpaceRGB

	spaceCount
)

// String returns the lower-case name of the space.
func (s ColorSpace) String() string {
	switch s {
	case SpaceGray:
		return "gray"
	case SpaceRGB:
		return "rgb"
	default:
		return "unknown"
	}
}

// Colors returns the number of color channels (alpha excluded).
func (s ColorSpace) Colors() int {
	switch s {
	case SpaceGray:
		return 1
	case SpaceRGB:
		return 3
	default:
		return 0
	}
}

// ChannelType identifies the storage type of one sample.
type ChannelType uint8

const (
	// TypeU8 stores samples as uint8 in [0,255].
	TypeU8 ChannelType = iota

	// TypeU16 stores samples as uint16 in [0,65535].
	TypeU16

	// TypeFloat stores samples as float32, nominally in [0,1].
	TypeFloat

	typeCount
)

// String returns the lower-case name of the type.
func (c ChannelType) String() string {
	switch c {
	case TypeU8:
		return "u8"
	case TypeU16:
		return "u16"
	case TypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// BytesPerSample returns the storage size of one sample.
func (c ChannelType) BytesPerSample() int {
	switch c {
	case TypeU8:
		return 1
	case TypeU16:
		return 2
	case TypeFloat:
		return 4
	default:
		return 0
	}
}

// Model describes the pixel format of a tile.
type Model struct {
	Space ColorSpace
	Type  ChannelType
	Alpha bool
}

// Common models.
var (
	RGBAFloat = Model{Space: SpaceRGB, Type: TypeFloat, Alpha: true}
	RGBFloat  = Model{Space: SpaceRGB, Type: TypeFloat}
	RGBAU8    = Model{Space: SpaceRGB, Type: TypeU8, Alpha: true}
	RGBU8     = Model{Space: SpaceRGB, Type: TypeU8}
	RGBAU16   = Model{Space: SpaceRGB, Type: TypeU16, Alpha: true}
	GrayFloat = Model{Space: SpaceGray, Type: TypeFloat}
	GrayU8    = Model{Space: SpaceGray, Type: TypeU8}
	GrayAU8   = Model{Space: SpaceGray, Type: TypeU8, Alpha: true}
	GrayU16   = Model{Space: SpaceGray, Type: TypeU16}
)

// ErrInvalidModel is returned when a model name cannot be parsed.
var ErrInvalidModel = errors.New("tile: invalid model")

// IsValid reports whether the model has a known space and type.
func (m Model) IsValid() bool {
	return m.Space < spaceCount && m.Type < typeCount
}

// NumColors returns the number of color channels.
func (m Model) NumColors() int {
	return m.Space.Colors()
}

// NumChannels returns the number of channels including alpha.
func (m Model) NumChannels() int {
	n := m.Space.Colors()
	if m.Alpha {
		n++
	}
	return n
}

// AlphaIndex returns the plane index of the alpha channel, or -1 if the
// model has none. Alpha is always stored after the color channels.
func (m Model) AlphaIndex() int {
	if !m.Alpha {
		return -1
	}
	return m.Space.Colors()
}

// WithAlpha returns m with an alpha channel.
func (m Model) WithAlpha() Model {
	m.Alpha = true
	return m
}

// String returns names such as "rgba-float", "rgb-u8" or "graya-u16".
func (m Model) String() string {
	var b strings.Builder
	b.WriteString(m.Space.String())
	if m.Alpha {
		b.WriteByte('a')
	}
	b.WriteByte('-')
	b.WriteString(m.Type.String())
	return b.String()
}

// ParseModel parses the names produced by Model.String.
func ParseModel(s string) (Model, error) {
	space, typ, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "-")
	if !ok {
		return Model{}, ErrInvalidModel
	}

	var m Model
	switch space {
	case "gray":
		m.Space = SpaceGray
	case "graya":
		m.Space, m.Alpha = SpaceGray, true
	case "rgb":
		m.Space = SpaceRGB
	case "rgba":
		m.Space, m.Alpha = SpaceRGB, true
	default:
		return Model{}, ErrInvalidModel
	}

	switch typ {
	case "u8":
		m.Type = TypeU8
	case "u16":
		m.Type = TypeU16
	case "float":
		m.Type = TypeFloat
	default:
		return Model{}, ErrInvalidModel
	}
	return m, nil
}
