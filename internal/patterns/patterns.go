// Package patterns provides named seed patterns and random soups for the
// engine's initial live set.
package patterns

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"lifegrid/internal/core"
	pcore "lifegrid/pkg/core"
)

//go:embed patterns.yaml
var builtin []byte

// ErrUnknown is returned when a pattern name is not in the library.
var ErrUnknown = errors.New("unknown pattern")

// Block is a solid rectangle of live cells.
type Block struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Pattern is a named live-cell layout.
type Pattern struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Rows        []string `yaml:"rows"`
	Fill        *Block   `yaml:"fill"`
}

// Bounds returns the pattern's width and height.
func (p Pattern) Bounds() (int, int) {
	if p.Fill != nil {
		return p.Fill.W, p.Fill.H
	}
	w := 0
	for _, row := range p.Rows {
		w = max(w, len(row))
	}
	return w, len(p.Rows)
}

// Cells returns the live cells relative to the pattern's top-left corner.
func (p Pattern) Cells() []core.Coord {
	var cells []core.Coord
	if p.Fill != nil {
		for y := 0; y < p.Fill.H; y++ {
			for x := 0; x < p.Fill.W; x++ {
				cells = append(cells, core.Coord{X: x, Y: y})
			}
		}
		return cells
	}
	for y, row := range p.Rows {
		for x, ch := range row {
			if ch == 'O' || ch == 'o' || ch == '*' {
				cells = append(cells, core.Coord{X: x, Y: y})
			}
		}
	}
	return cells
}

// Place returns the pattern's live cells centred on (cx, cy).
func (p Pattern) Place(cx, cy int) []core.Coord {
	w, h := p.Bounds()
	ox, oy := cx-w/2, cy-h/2
	cells := p.Cells()
	for i := range cells {
		cells[i].X += ox
		cells[i].Y += oy
	}
	return cells
}

// Library indexes patterns by name.
type Library struct {
	byName map[string]Pattern
}

type document struct {
	Patterns []Pattern `yaml:"patterns"`
}

// Load parses a YAML pattern document.
func Load(r io.Reader) (*Library, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("patterns: decode: %w", err)
	}
	lib := &Library{byName: make(map[string]Pattern, len(doc.Patterns))}
	for _, p := range doc.Patterns {
		if err := lib.Add(p); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// Builtin returns the library compiled into the binary.
func Builtin() *Library {
	var doc document
	if err := yaml.Unmarshal(builtin, &doc); err != nil {
		panic(fmt.Sprintf("patterns: builtin library: %v", err))
	}
	lib := &Library{byName: make(map[string]Pattern, len(doc.Patterns))}
	for _, p := range doc.Patterns {
		if err := lib.Add(p); err != nil {
			panic(err)
		}
	}
	return lib
}

// Add registers p, replacing any pattern with the same name.
func (l *Library) Add(p Pattern) error {
	if p.Name == "" {
		return errors.New("patterns: pattern without a name")
	}
	if p.Fill != nil && (p.Fill.W <= 0 || p.Fill.H <= 0) {
		return fmt.Errorf("patterns: %s: fill must be positive, got %dx%d", p.Name, p.Fill.W, p.Fill.H)
	}
	if p.Fill == nil && len(p.Rows) == 0 {
		return fmt.Errorf("patterns: %s: needs rows or a fill block", p.Name)
	}
	l.byName[p.Name] = p
	return nil
}

// Get looks up a pattern by name.
func (l *Library) Get(name string) (Pattern, error) {
	p, ok := l.byName[name]
	if !ok {
		return Pattern{}, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return p, nil
}

// Names lists the available patterns in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.byName))
	for name := range l.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Random returns a soup where each cell of a size.W*size.H grid is alive with
// the given probability.
func Random(size core.Size, density float64, seed int64) []core.Coord {
	rng := pcore.NewRNG(seed)
	var cells []core.Coord
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			if rng.Chance(density) {
				cells = append(cells, core.Coord{X: x, Y: y})
			}
		}
	}
	return cells
}

// RandomName selects a random soup instead of a library pattern.
const RandomName = "random"

// Resolve turns a pattern name into the live set for a grid of the given
// size: "random" yields a soup, anything else is looked up and centred.
func (l *Library) Resolve(name string, size core.Size, density float64, seed int64) ([]core.Coord, error) {
	if name == RandomName {
		return Random(size, density, seed), nil
	}
	p, err := l.Get(name)
	if err != nil {
		return nil, err
	}
	return p.Place(size.W/2, size.H/2), nil
}
