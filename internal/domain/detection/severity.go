package detection

// Severity is the priority tier assigned to an anomalous verdict.
// Lower tier number means more severe.
type Severity string

// Priority tiers
const (
	SeverityCritical Severity = "P0"
	SeverityHigh     Severity = "P1"
	SeverityMedium   Severity = "P2"
	SeverityLow      Severity = "P3"
	SeverityInfo     Severity = "P4"
)

// severityRanks orders tiers from most severe (0) to least (4).
var severityRanks = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

var severityLabels = map[Severity]string{
	SeverityCritical: "Critical",
	SeverityHigh:     "High",
	SeverityMedium:   "Medium",
	SeverityLow:      "Low",
	SeverityInfo:     "Informational",
}

// Severities returns all tiers from most to least severe.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}

// ParseSeverity validates a tier name.
func ParseSeverity(s string) (Severity, bool) {
	if _, ok := severityRanks[Severity(s)]; ok {
		return Severity(s), true
	}
	return "", false
}

// SeverityFromScore maps a normalized anomaly score to a tier.
// Boundaries are inclusive on the lower edge: 0.90 is already critical.
func SeverityFromScore(score float64) Severity {
	switch {
	case score >= 0.90:
		return SeverityCritical
	case score >= 0.75:
		return SeverityHigh
	case score >= 0.50:
		return SeverityMedium
	case score >= 0.30:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// Rank returns the tier's position, 0 for critical through 4 for
// informational. Unknown severities rank last.
func (s Severity) Rank() int {
	if r, ok := severityRanks[s]; ok {
		return r
	}
	return len(severityRanks)
}

// MoreSevereThan reports whether s outranks other.
func (s Severity) MoreSevereThan(other Severity) bool {
	return s.Rank() < other.Rank()
}

// Label returns the human-readable tier name.
func (s Severity) Label() string {
	if l, ok := severityLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// Valid reports whether s is a known tier.
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// String implements fmt.Stringer.
func (s Severity) String() string {
	return string(s)
}
