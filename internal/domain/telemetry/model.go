package telemetry

import "time"

// Sector identifies which critical-infrastructure vertical an asset
// belongs to. The detection engine keeps an independent model set per
// sector, so every sample must carry one.
type Sector string

// Monitored sectors
const (
	SectorHealthcare  Sector = "healthcare"
	SectorAgriculture Sector = "agriculture"
	SectorUrban       Sector = "urban"
)

// Sectors returns all monitored sectors in a stable order.
func Sectors() []Sector {
	return []Sector{SectorHealthcare, SectorAgriculture, SectorUrban}
}

// ParseSector validates a sector name.
func ParseSector(s string) (Sector, bool) {
	switch Sector(s) {
	case SectorHealthcare, SectorAgriculture, SectorUrban:
		return Sector(s), true
	}
	return "", false
}

// String implements fmt.Stringer.
func (s Sector) String() string {
	return string(s)
}

// Sample is one telemetry reading from a monitored asset. Features
// holds the numeric signal the detectors consume; identifier and time
// fields stay outside it so they never leak into model input. Labels
// carries optional non-numeric annotations (scenario tags, statuses).
type Sample struct {
	Timestamp time.Time          `json:"timestamp"`
	AssetID   string             `json:"asset_id"`
	AssetType string             `json:"asset_type"`
	Sector    Sector             `json:"sector"`
	Features  map[string]float64 `json:"features"`
	Labels    map[string]string  `json:"labels,omitempty"`
}

// Feature returns a named feature value and whether it was present.
func (s Sample) Feature(name string) (float64, bool) {
	v, ok := s.Features[name]
	return v, ok
}

// Clone returns a deep copy, safe to retain after the caller mutates
// the original.
func (s Sample) Clone() Sample {
	out := s
	if s.Features != nil {
		out.Features = make(map[string]float64, len(s.Features))
		for k, v := range s.Features {
			out.Features[k] = v
		}
	}
	if s.Labels != nil {
		out.Labels = make(map[string]string, len(s.Labels))
		for k, v := range s.Labels {
			out.Labels[k] = v
		}
	}
	return out
}
