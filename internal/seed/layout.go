// Package seed loads store floor plans from YAML files and writes them to
// the database.
package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a seed file. It may describe several stores.
type File struct {
	Stores []Layout `yaml:"stores"`
}

// Layout describes one store: a full cols x rows grid of tiles, the cells
// that are obstacles, the two landmark tiles and the stocked items.
type Layout struct {
	Name      string  `yaml:"name"`
	MapURL    string  `yaml:"mapURL"`
	Cols      int     `yaml:"cols"`
	Rows      int     `yaml:"rows"`
	Obstacles []Coord `yaml:"obstacles"`
	Entrance  *Coord  `yaml:"entrance"`
	Checkout  *Coord  `yaml:"checkout"`
	Items     []Item  `yaml:"items"`
}

type Coord struct {
	Col int `yaml:"col"`
	Row int `yaml:"row"`
}

// Item uses the same loc {x, y} shape as the bulk item endpoint.
type Item struct {
	Name string   `yaml:"name"`
	Loc  Loc      `yaml:"loc"`
	Tags []string `yaml:"tags"`
}

type Loc struct {
	X *int `yaml:"x"`
	Y *int `yaml:"y"`
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates seed YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	if len(f.Stores) == 0 {
		return nil, errors.New("seed file has no stores")
	}
	for i := range f.Stores {
		if err := f.Stores[i].Validate(); err != nil {
			return nil, fmt.Errorf("store %d: %w", i+1, err)
		}
	}
	return &f, nil
}

func (l *Layout) contains(col, row int) bool {
	return col >= 0 && col < l.Cols && row >= 0 && row < l.Rows
}

// Validate checks that every referenced cell lies inside the grid.
func (l *Layout) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Cols <= 0 || l.Rows <= 0 {
		return fmt.Errorf("%s: cols and rows must be positive", l.Name)
	}
	for _, c := range l.Obstacles {
		if !l.contains(c.Col, c.Row) {
			return fmt.Errorf("%s: obstacle (%d,%d) is outside the grid", l.Name, c.Col, c.Row)
		}
	}
	if l.Entrance != nil && !l.contains(l.Entrance.Col, l.Entrance.Row) {
		return fmt.Errorf("%s: entrance is outside the grid", l.Name)
	}
	if l.Checkout != nil && !l.contains(l.Checkout.Col, l.Checkout.Row) {
		return fmt.Errorf("%s: checkout is outside the grid", l.Name)
	}
	for _, it := range l.Items {
		if it.Name == "" {
			return fmt.Errorf("%s: item without a name", l.Name)
		}
		if it.Loc.X == nil || it.Loc.Y == nil {
			return fmt.Errorf("%s: item %q is missing loc", l.Name, it.Name)
		}
		if !l.contains(*it.Loc.X, *it.Loc.Y) {
			return fmt.Errorf("%s: item %q at (%d,%d) is outside the grid", l.Name, it.Name, *it.Loc.X, *it.Loc.Y)
		}
	}
	return nil
}
