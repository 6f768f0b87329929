package aggregate

import "strings"

// Region maps location substrings (country plus major city names, lower
// case) onto a provider geo bucket. Pure string containment; no geocoding.
type Region struct {
	Geo   string
	Match []string
}

type RegionDetector struct {
	regions []Region
}

func NewRegionDetector(regions []Region) *RegionDetector {
	return &RegionDetector{regions: regions}
}

// Detect resolves a free-form location to a geo bucket. ok=false means no
// configured region matched and region-scoped sources must be skipped.
func (d *RegionDetector) Detect(location string) (geo string, ok bool) {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" || d == nil {
		return "", false
	}
	for _, r := range d.regions {
		for _, m := range r.Match {
			m = strings.ToLower(strings.TrimSpace(m))
			if m != "" && strings.Contains(loc, m) {
				return r.Geo, true
			}
		}
	}
	return "", false
}
