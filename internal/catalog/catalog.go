// Package catalog provides the conductor catalog: size labels mapped to
// equivalent cross-sectional areas and per-material ampacity ratings.
// The catalog is static input for the calculation engine and the optimizer.
package catalog

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/voltflow/voltflow-go/internal/errors"
)

// Material identifies the conductor material.
type Material string

const (
	MaterialCopper   Material = "copper"
	MaterialAluminum Material = "aluminum"
)

// Valid reports whether m is a known conductor material.
func (m Material) Valid() bool {
	return m == MaterialCopper || m == MaterialAluminum
}

// Entry describes one catalog conductor size.
type Entry struct {
	Size     string               `yaml:"size" json:"size"`
	AreaCMil float64              `yaml:"areacmil" json:"areaCMil"`
	Ampacity map[Material]float64 `yaml:"ampacity" json:"ampacity"`
}

// Catalog holds conductor entries ordered ascending by cross-sectional area.
type Catalog struct {
	entries []Entry
	bySize  map[string]int
}

// New builds a catalog from the given entries. Entries are sorted ascending
// by area; duplicate size labels and non-positive areas are rejected.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, errors.Newf("catalog must contain at least one entry").
			Component("catalog").
			Category(errors.CategoryConductorCatalog).
			Build()
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AreaCMil < sorted[j].AreaCMil
	})

	bySize := make(map[string]int, len(sorted))
	for i := range sorted {
		e := &sorted[i]
		if e.AreaCMil <= 0 {
			return nil, errors.Newf("catalog entry %q has non-positive area %g", e.Size, e.AreaCMil).
				Component("catalog").
				Category(errors.CategoryConductorCatalog).
				Build()
		}
		if _, dup := bySize[e.Size]; dup {
			return nil, errors.Newf("duplicate catalog size %q", e.Size).
				Component("catalog").
				Category(errors.CategoryConductorCatalog).
				Build()
		}
		bySize[e.Size] = i
	}

	return &Catalog{entries: sorted, bySize: bySize}, nil
}

// LoadFile reads a YAML catalog file. The file holds a list of entries in the
// same shape as Entry.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf("reading catalog file: %v", err).
			Component("catalog").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Newf("parsing catalog file: %v", err).
			Component("catalog").
			Category(errors.CategoryConductorCatalog).
			Context("path", path).
			Build()
	}

	return New(entries)
}

// Lookup returns the entry for the given size label.
func (c *Catalog) Lookup(size string) (Entry, error) {
	i, ok := c.bySize[size]
	if !ok {
		return Entry{}, errors.CatalogError(size)
	}
	return c.entries[i], nil
}

// Has reports whether the size label exists in the catalog.
func (c *Catalog) Has(size string) bool {
	_, ok := c.bySize[size]
	return ok
}

// Ampacity returns the ampacity rating for a size and material.
func (c *Catalog) Ampacity(size string, material Material) (float64, error) {
	entry, err := c.Lookup(size)
	if err != nil {
		return 0, err
	}
	amp, ok := entry.Ampacity[material]
	if !ok {
		return 0, errors.Newf("no %s ampacity rating for size %q", material, size).
			Component("catalog").
			Category(errors.CategoryConductorCatalog).
			Build()
	}
	return amp, nil
}

// Entries returns the catalog entries ascending by area. The returned slice
// is a copy and safe for the caller to modify.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// NextSizeUp returns the next larger entry after the given size.
// The second return is false when size is already the largest.
func (c *Catalog) NextSizeUp(size string) (Entry, bool) {
	i, ok := c.bySize[size]
	if !ok || i+1 >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[i+1], true
}

// Largest returns the largest entry in the catalog.
func (c *Catalog) Largest() Entry {
	return c.entries[len(c.entries)-1]
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
