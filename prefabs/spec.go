package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	WorldFile   = "world.yaml"
	GrappleFile = "grapple.yaml"
)

// Body roles in world.yaml.
const (
	RolePlayer   = "player"
	RoleBoundary = "boundary"
	RolePlatform = "platform"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type WorldSpec struct {
	Name    string     `yaml:"name" json:"name"`
	Canvas  CanvasSpec `yaml:"canvas" json:"canvas"`
	Gravity float64    `yaml:"gravity" json:"gravity"`
	Goal    GoalSpec   `yaml:"goal" json:"goal"`
	Bodies  []BodySpec `yaml:"bodies" json:"bodies"`
}

type CanvasSpec struct {
	Width      float64 `yaml:"width" json:"width"`
	Height     float64 `yaml:"height" json:"height"`
	Background string  `yaml:"background" json:"background,omitempty"`
}

// GoalSpec places the win region: the player must be further right than
// width-margin and higher than margin. Script optionally names a tengo
// predicate in scripts/ that replaces the built-in test.
type GoalSpec struct {
	Margin float64 `yaml:"margin" json:"margin"`
	Script string  `yaml:"script" json:"script,omitempty"`
}

// BodySpec describes one body. X and Y are the centre of the shape.
type BodySpec struct {
	Name        string  `yaml:"name" json:"name"`
	Role        string  `yaml:"role" json:"role" jsonschema:"enum=player,enum=boundary,enum=platform"`
	Shape       string  `yaml:"shape" json:"shape" jsonschema:"enum=circle,enum=box"`
	X           float64 `yaml:"x" json:"x"`
	Y           float64 `yaml:"y" json:"y"`
	Width       float64 `yaml:"width" json:"width,omitempty"`
	Height      float64 `yaml:"height" json:"height,omitempty"`
	Radius      float64 `yaml:"radius" json:"radius,omitempty"`
	Static      bool    `yaml:"static" json:"static,omitempty"`
	Density     float64 `yaml:"density" json:"density,omitempty"`
	Friction    float64 `yaml:"friction" json:"friction,omitempty"`
	Restitution float64 `yaml:"restitution" json:"restitution,omitempty"`
	AirFriction float64 `yaml:"air_friction" json:"air_friction,omitempty"`
	Color       string  `yaml:"color" json:"color,omitempty"`
}

type GrappleSpec struct {
	MaxLength float64        `yaml:"max_length" json:"max_length"`
	Stiffness float64        `yaml:"stiffness" json:"stiffness"`
	Damping   float64        `yaml:"damping" json:"damping"`
	Rope      LineRenderSpec `yaml:"rope" json:"rope"`
}

type LineRenderSpec struct {
	Width     float32 `yaml:"width" json:"width"`
	Color     string  `yaml:"color" json:"color"`
	AntiAlias bool    `yaml:"anti_alias" json:"anti_alias,omitempty"`
}

func LoadWorldSpec(filename string) (*WorldSpec, error) {
	if filename == "" {
		filename = WorldFile
	}
	spec, err := LoadSpec[WorldSpec](filename)
	if err != nil {
		return nil, err
	}
	spec.applyDefaults()
	if err := spec.validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

func LoadGrappleSpec() (*GrappleSpec, error) {
	spec, err := LoadSpec[GrappleSpec](GrappleFile)
	if err != nil {
		return nil, err
	}
	spec.applyDefaults()
	return &spec, nil
}

func (s *WorldSpec) applyDefaults() {
	if s.Canvas.Width <= 0 {
		s.Canvas.Width = 800
	}
	if s.Canvas.Height <= 0 {
		s.Canvas.Height = 600
	}
	if s.Gravity == 0 {
		s.Gravity = 1000
	}
	if s.Goal.Margin <= 0 {
		s.Goal.Margin = 50
	}
	for i := range s.Bodies {
		b := &s.Bodies[i]
		if b.Shape == "" {
			b.Shape = "box"
		}
		if b.Role == RoleBoundary || b.Role == RolePlatform {
			b.Static = true
		}
		if b.Density == 0 {
			b.Density = 0.001
		}
		if b.Friction == 0 {
			b.Friction = 0.1
		}
	}
}

func (s *WorldSpec) validate() error {
	players := 0
	for _, b := range s.Bodies {
		switch b.Role {
		case RolePlayer:
			players++
			if b.Static {
				return fmt.Errorf("body %q: player cannot be static", b.Name)
			}
		case RoleBoundary, RolePlatform:
		default:
			return fmt.Errorf("body %q: unknown role %q", b.Name, b.Role)
		}
		switch b.Shape {
		case "circle":
			if b.Radius <= 0 {
				return fmt.Errorf("body %q: circle needs a radius", b.Name)
			}
		case "box":
			if b.Width <= 0 || b.Height <= 0 {
				return fmt.Errorf("body %q: box needs width and height", b.Name)
			}
		default:
			return fmt.Errorf("body %q: unknown shape %q", b.Name, b.Shape)
		}
	}
	if players != 1 {
		return fmt.Errorf("expected exactly one player body, found %d", players)
	}
	return nil
}

func (s *GrappleSpec) applyDefaults() {
	if s.MaxLength <= 0 {
		s.MaxLength = 300
	}
	if s.Stiffness <= 0 {
		s.Stiffness = 0.05
	}
	if s.Damping < 0 {
		s.Damping = 0
	}
	if s.Rope.Width <= 0 {
		s.Rope.Width = 2
	}
	if s.Rope.Color == "" {
		s.Rope.Color = "#000000"
	}
}

// ParseColor reads #RRGGBB or #RRGGBBAA.
func ParseColor(value string) (color.Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(s) != 6 && len(s) != 8 {
		return nil, fmt.Errorf("invalid color format: %s", value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return nil, fmt.Errorf("invalid color %s: %w", value, err)
		}
		rgba[i] = v
	}

	return color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}, nil
}
