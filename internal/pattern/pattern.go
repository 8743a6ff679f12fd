// Package pattern provides named starting colonies and loads custom ones
// from YAML files.
package pattern

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/colony/pkg/life"
)

// Pattern is a named set of live cells.
type Pattern struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Cells       [][2]int `yaml:"cells"`
}

// LiveSet converts the pattern cells into a live set.
func (p Pattern) LiveSet() life.LiveSet {
	s := make(life.LiveSet, len(p.Cells))
	for _, c := range p.Cells {
		s.Add(life.Coord{X: c[0], Y: c[1]})
	}
	return s
}

// FromLiveSet builds a pattern from a live set, cells in display order.
func FromLiveSet(name string, s life.LiveSet) Pattern {
	p := Pattern{Name: name}
	for _, c := range s.Sorted() {
		p.Cells = append(p.Cells, [2]int{c.X, c.Y})
	}
	return p
}

// Cells are given with y growing upwards, matching the grid.
var builtins = map[string]Pattern{
	"block": {
		Name:        "block",
		Description: "2x2 still life",
		Cells:       [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	"blinker": {
		Name:        "blinker",
		Description: "period 2 oscillator",
		Cells:       [][2]int{{0, 0}, {1, 0}, {2, 0}},
	},
	"toad": {
		Name:        "toad",
		Description: "period 2 oscillator",
		Cells:       [][2]int{{1, 1}, {2, 1}, {3, 1}, {0, 0}, {1, 0}, {2, 0}},
	},
	"beacon": {
		Name:        "beacon",
		Description: "period 2 oscillator",
		Cells:       [][2]int{{0, 3}, {1, 3}, {0, 2}, {3, 1}, {2, 0}, {3, 0}},
	},
	"glider": {
		Name:        "glider",
		Description: "spaceship travelling down and right",
		Cells:       [][2]int{{1, 2}, {2, 1}, {0, 0}, {1, 0}, {2, 0}},
	},
	"r-pentomino": {
		Name:        "r-pentomino",
		Description: "methuselah that stabilises after 1103 generations",
		Cells:       [][2]int{{1, 2}, {2, 2}, {0, 1}, {1, 1}, {1, 0}},
	},
}

// Builtin returns the built-in pattern with the given name.
func Builtin(name string) (Pattern, bool) {
	p, ok := builtins[strings.ToLower(name)]
	return p, ok
}

// Names returns the built-in pattern names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadFile reads a pattern from a YAML file.
func LoadFile(path string) (Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pattern{}, fmt.Errorf("failed to read pattern file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML pattern document.
func Parse(data []byte) (Pattern, error) {
	var p Pattern
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pattern{}, fmt.Errorf("invalid pattern: %w", err)
	}
	if len(p.Cells) == 0 {
		return Pattern{}, errors.New("invalid pattern: no cells")
	}
	return p, nil
}

// Marshal encodes p as YAML.
func Marshal(p Pattern) ([]byte, error) {
	return yaml.Marshal(p)
}

// Resolve returns a built-in pattern when ref names one, and otherwise
// loads ref as a file path.
func Resolve(ref string) (Pattern, error) {
	if p, ok := Builtin(ref); ok {
		return p, nil
	}
	if _, err := os.Stat(ref); err != nil {
		return Pattern{}, fmt.Errorf("unknown pattern %q (built-in patterns: %s)", ref, strings.Join(Names(), ", "))
	}
	return LoadFile(ref)
}

// ParseOffset parses an "x,y" offset. An empty string is the zero offset.
func ParseOffset(s string) (life.Coord, error) {
	if strings.TrimSpace(s) == "" {
		return life.Coord{}, nil
	}
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return life.Coord{}, fmt.Errorf("invalid offset %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return life.Coord{}, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return life.Coord{}, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	return life.Coord{X: x, Y: y}, nil
}
