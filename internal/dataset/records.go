package dataset

import (
	"sort"

	"github.com/repkit/repscore/internal/config"
)

// Record is one respondent row: categorical attribute values keyed by
// attribute name. A missing or empty value means the respondent cannot be
// placed in any stratum that uses that attribute.
type Record map[string]string

// DropReport counts rows dropped per attribute during standardization.
type DropReport map[string]int

// Total returns the sum of dropped rows across attributes. Rows dropped on
// multiple attributes are counted once per attribute.
func (r DropReport) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}

// Attributes returns the attributes with at least one drop, sorted.
func (r DropReport) Attributes() []string {
	attrs := make([]string, 0, len(r))
	for attr, n := range r {
		if n > 0 {
			attrs = append(attrs, attr)
		}
	}
	sort.Strings(attrs)
	return attrs
}

// Standardize translates raw survey labels into the standard vocabulary
// using the segment mappings configured for source. Rows whose value has no
// mapping entry for a mapped attribute are dropped; attributes without a
// configured mapping pass through unchanged. The input is not modified.
func Standardize(rows []Record, source string, cfg *config.Config) ([]Record, DropReport) {
	mapped := cfg.MappedAttributes(source)
	out := make([]Record, 0, len(rows))
	report := make(DropReport)

rows:
	for _, row := range rows {
		std := make(Record, len(row))
		for k, v := range row {
			std[k] = v
		}
		for _, attr := range mapped {
			raw, ok := row[attr]
			if !ok {
				continue
			}
			mapping := cfg.SegmentMapping(source, attr)
			standard, ok := mapping[raw]
			if !ok {
				report[attr]++
				continue rows
			}
			std[attr] = standard
		}
		out = append(out, std)
	}
	return out, report
}

// AddRegions derives region and continent attributes from each record's
// country. Records with an unmapped country keep empty derived values, which
// excludes them from region/continent dimensions but not from others.
func AddRegions(rows []Record, cfg *config.Config) []Record {
	countryToRegion := cfg.CountryToRegion()
	countryToContinent := cfg.CountryToContinent()

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		augmented := make(Record, len(row)+2)
		for k, v := range row {
			augmented[k] = v
		}
		if country, ok := row["country"]; ok {
			augmented["region"] = countryToRegion[country]
			augmented["continent"] = countryToContinent[country]
		}
		out = append(out, augmented)
	}
	return out
}
