package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Dimension defines one stratum universe: an ordered list of attribute
// columns plus display metadata. Strata are only ever compared within a
// single dimension.
type Dimension struct {
	Name        string   `yaml:"name"`
	Columns     []string `yaml:"columns"`
	Description string   `yaml:"description"`
}

// Config holds the fully resolved configuration for a scoring run:
// dimension definitions, segment label mappings and the geographic
// hierarchy. It is loaded once and treated as immutable afterwards.
type Config struct {
	Standard []Dimension
	Extended []Dimension

	// reverse segment mappings: source -> attribute -> raw label -> standard label
	segmentMappings map[string]map[string]map[string]string

	countryToRegion   map[string]string
	regionToContinent map[string]string
}

type dimensionsFile struct {
	StandardScorecard []Dimension `yaml:"standard_scorecard"`
	ExtendedDimension []Dimension `yaml:"extended_dimensions"`
}

type regionsFile struct {
	CountryToRegion   map[string][]string `yaml:"country_to_region"`
	RegionToContinent map[string][]string `yaml:"region_to_continent"`
}

// segmentsFile mirrors the YAML layout: benchmark_mappings maps
// attribute -> standard label -> accepted raw labels; survey_mappings adds a
// per-source level and allows an entry to inherit a benchmark mapping via
// inherit_from.
type segmentsFile struct {
	BenchmarkMappings map[string]map[string][]string           `yaml:"benchmark_mappings"`
	SurveyMappings    map[string]map[string]surveySegmentEntry `yaml:"survey_mappings"`
}

type surveySegmentEntry struct {
	InheritFrom string
	Mapping     map[string][]string
}

func (e *surveySegmentEntry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw map[string]interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if inherit, ok := raw["inherit_from"].(string); ok {
		e.InheritFrom = inherit
		return nil
	}
	e.Mapping = make(map[string][]string, len(raw))
	for standard, values := range raw {
		list, ok := values.([]interface{})
		if !ok {
			return fmt.Errorf("segment mapping for %q must be a list of labels", standard)
		}
		for _, v := range list {
			e.Mapping[standard] = append(e.Mapping[standard], fmt.Sprintf("%v", v))
		}
	}
	return nil
}

// BenchmarkSource is the mapping source name used for benchmark tables.
const BenchmarkSource = "benchmark"

// Load reads dimensions.yaml, segments.yaml and regions.yaml from dir and
// resolves them into an immutable Config.
func Load(dir string) (*Config, error) {
	var dims dimensionsFile
	if err := readYAML(filepath.Join(dir, "dimensions.yaml"), &dims); err != nil {
		return nil, err
	}
	var segs segmentsFile
	if err := readYAML(filepath.Join(dir, "segments.yaml"), &segs); err != nil {
		return nil, err
	}
	var regions regionsFile
	if err := readYAML(filepath.Join(dir, "regions.yaml"), &regions); err != nil {
		return nil, err
	}

	cfg := &Config{
		Standard:        dims.StandardScorecard,
		Extended:        dims.ExtendedDimension,
		segmentMappings: make(map[string]map[string]map[string]string),
	}

	cfg.segmentMappings[BenchmarkSource] = reverseMappings(segs.BenchmarkMappings)

	for source, attrs := range segs.SurveyMappings {
		resolved := make(map[string]map[string]string, len(attrs))
		for attr, entry := range attrs {
			if entry.InheritFrom != "" {
				base, err := resolveInheritance(entry.InheritFrom, segs.BenchmarkMappings)
				if err != nil {
					return nil, fmt.Errorf("survey mapping %s.%s: %w", source, attr, err)
				}
				resolved[attr] = reverseMapping(base)
				continue
			}
			resolved[attr] = reverseMapping(entry.Mapping)
		}
		cfg.segmentMappings[source] = resolved
	}

	cfg.countryToRegion = flattenHierarchy(regions.CountryToRegion)
	cfg.regionToContinent = flattenHierarchy(regions.RegionToContinent)

	return cfg, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func resolveInheritance(path string, benchmark map[string]map[string][]string) (map[string][]string, error) {
	parts := strings.Split(path, ".")
	if len(parts) != 2 || parts[0] != "benchmark_mappings" {
		return nil, fmt.Errorf("unsupported inherit_from path %q", path)
	}
	base, ok := benchmark[parts[1]]
	if !ok {
		return nil, fmt.Errorf("inherit_from references unknown mapping %q", parts[1])
	}
	return base, nil
}

// reverseMapping converts standard -> raw labels into raw label -> standard.
func reverseMapping(m map[string][]string) map[string]string {
	reversed := make(map[string]string)
	for standard, sources := range m {
		for _, source := range sources {
			reversed[source] = standard
		}
	}
	return reversed
}

func reverseMappings(m map[string]map[string][]string) map[string]map[string]string {
	reversed := make(map[string]map[string]string, len(m))
	for attr, mapping := range m {
		reversed[attr] = reverseMapping(mapping)
	}
	return reversed
}

func flattenHierarchy(parents map[string][]string) map[string]string {
	flat := make(map[string]string)
	for parent, children := range parents {
		for _, child := range children {
			flat[child] = parent
		}
	}
	return flat
}

// StandardScorecard returns the dimensions of the standard scorecard.
func (c *Config) StandardScorecard() []Dimension { return c.Standard }

// AllDimensions returns standard plus extended dimensions.
func (c *Config) AllDimensions() []Dimension {
	all := make([]Dimension, 0, len(c.Standard)+len(c.Extended))
	all = append(all, c.Standard...)
	all = append(all, c.Extended...)
	return all
}

// DimensionByName looks up a dimension across standard and extended sets.
func (c *Config) DimensionByName(name string) (Dimension, bool) {
	for _, d := range c.AllDimensions() {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

// SegmentMapping returns the raw-label -> standard-label mapping for one
// attribute of one source. A nil result means no mapping is configured and
// labels pass through unchanged.
func (c *Config) SegmentMapping(source, attribute string) map[string]string {
	attrs, ok := c.segmentMappings[source]
	if !ok {
		return nil
	}
	return attrs[attribute]
}

// MappedAttributes lists the attributes with a configured mapping for source.
func (c *Config) MappedAttributes(source string) []string {
	attrs := make([]string, 0, len(c.segmentMappings[source]))
	for attr := range c.segmentMappings[source] {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	return attrs
}

// CountryToRegion returns the country -> region lookup.
func (c *Config) CountryToRegion() map[string]string { return c.countryToRegion }

// RegionToContinent returns the region -> continent lookup.
func (c *Config) RegionToContinent() map[string]string { return c.regionToContinent }

// CountryToContinent composes the two hierarchy levels.
func (c *Config) CountryToContinent() map[string]string {
	composed := make(map[string]string, len(c.countryToRegion))
	for country, region := range c.countryToRegion {
		if continent, ok := c.regionToContinent[region]; ok {
			composed[country] = continent
		}
	}
	return composed
}

// ConfigError reports a dimension whose requirements cannot be satisfied by
// the loaded mapping tables.
type ConfigError struct {
	Dimension string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dimension %q: %s", e.Dimension, e.Reason)
}

// ValidateDimension checks that a dimension only references attributes the
// configuration can supply: either directly mapped benchmark attributes,
// passthrough attributes, or region/continent derived from country.
func (c *Config) ValidateDimension(d Dimension) error {
	if len(d.Columns) == 0 {
		return &ConfigError{Dimension: d.Name, Reason: "no columns defined"}
	}
	for _, col := range d.Columns {
		switch col {
		case "region":
			if len(c.countryToRegion) == 0 {
				return &ConfigError{Dimension: d.Name, Reason: "region requested but country_to_region is empty"}
			}
		case "continent":
			if len(c.countryToRegion) == 0 || len(c.regionToContinent) == 0 {
				return &ConfigError{Dimension: d.Name, Reason: "continent requested but region hierarchy is incomplete"}
			}
		}
	}
	return nil
}
