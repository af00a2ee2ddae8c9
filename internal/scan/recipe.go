package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recipe is a named, persisted scan configuration: a flat mapping of filter
// parameters to values. Numeric options use pointers so "unset" is distinct
// from zero.
//
// Known limitation: TrendTemplate is a plain bool, so an explicit
// "trend_template: false" argument cannot be distinguished from "not
// provided" and will not override a loaded recipe's true.
type Recipe struct {
	MinPrice          *float64 `yaml:"min_price,omitempty"`
	MinVolume         *float64 `yaml:"min_volume,omitempty"`
	MinRelativeVolume *float64 `yaml:"min_relative_volume,omitempty"`
	MinADR            *float64 `yaml:"min_adr,omitempty"`
	GapUp             *float64 `yaml:"gap_up,omitempty"`
	TrendTemplate     bool     `yaml:"trend_template,omitempty"`
	Sort              string   `yaml:"sort,omitempty"`
}

// Merge overlays explicit values onto the recipe: a set field of override
// wins, otherwise the receiver's value is kept.
func (r Recipe) Merge(override Recipe) Recipe {
	out := r
	if override.MinPrice != nil {
		out.MinPrice = override.MinPrice
	}
	if override.MinVolume != nil {
		out.MinVolume = override.MinVolume
	}
	if override.MinRelativeVolume != nil {
		out.MinRelativeVolume = override.MinRelativeVolume
	}
	if override.MinADR != nil {
		out.MinADR = override.MinADR
	}
	if override.GapUp != nil {
		out.GapUp = override.GapUp
	}
	if override.TrendTemplate {
		out.TrendTemplate = true
	}
	if override.Sort != "" {
		out.Sort = override.Sort
	}
	return out
}

// Filters builds the active filter set in catalog order.
func (r Recipe) Filters() []Filter {
	var filters []Filter
	if r.MinPrice != nil {
		filters = append(filters, MinPrice{Min: *r.MinPrice})
	}
	if r.MinVolume != nil {
		filters = append(filters, MinVolume{Min: *r.MinVolume})
	}
	if r.MinRelativeVolume != nil {
		filters = append(filters, MinRVol{Min: *r.MinRelativeVolume})
	}
	if r.MinADR != nil {
		filters = append(filters, MinADR{Min: *r.MinADR})
	}
	if r.GapUp != nil {
		filters = append(filters, GapUp{ThresholdPct: *r.GapUp})
	}
	if r.TrendTemplate {
		filters = append(filters, TrendTemplate{})
	}
	return filters
}

// Summary renders the set parameters as "name=value" pairs for logs and the
// scan-run recorder.
func (r Recipe) Summary() string {
	var parts []string
	add := func(name string, v *float64) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s=%g", name, *v))
		}
	}
	add("min_price", r.MinPrice)
	add("min_volume", r.MinVolume)
	add("min_relative_volume", r.MinRelativeVolume)
	add("min_adr", r.MinADR)
	add("gap_up", r.GapUp)
	if r.TrendTemplate {
		parts = append(parts, "trend_template=true")
	}
	if len(parts) == 0 {
		return "unfiltered"
	}
	return strings.Join(parts, " ")
}

// LoadRecipe reads a recipe by name or path. A bare name (no extension)
// resolves to <name>.yaml; a name without a directory is looked up in dir
// when it does not exist as given.
func LoadRecipe(dir, nameOrPath string) (Recipe, error) {
	path := nameOrPath
	if filepath.Ext(path) == "" {
		path += ".yaml"
	}
	if _, err := os.Stat(path); err != nil && filepath.Dir(path) == "." {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, fmt.Errorf("read recipe %s: %w", nameOrPath, err)
	}
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Recipe{}, fmt.Errorf("parse recipe %s: %w", path, err)
	}
	return r, nil
}

// SaveRecipe writes the recipe as YAML. A bare name is placed in dir with a
// .yaml extension.
func SaveRecipe(dir, name string, r Recipe) (string, error) {
	path := name
	if filepath.Ext(path) == "" {
		path += ".yaml"
	}
	if filepath.Dir(path) == "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create recipes dir: %w", err)
		}
		path = filepath.Join(dir, path)
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode recipe: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write recipe %s: %w", path, err)
	}
	return path, nil
}
