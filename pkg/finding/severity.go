package finding

// Severity is the vulnerability impact classification printed by the
// scanner. Values are matched exactly: the scanner prints them title-cased
// and anything else is treated as unknown.
type Severity string

const (
	Critical Severity = "Critical"
	High     Severity = "High"
	Medium   Severity = "Medium"
	Low      Severity = "Low"
)

// KnownSeverities lists the tallied severities, most severe first.
var KnownSeverities = []Severity{Critical, High, Medium, Low}

// IsKnown reports whether s is one of the four tallied severities.
func (s Severity) IsKnown() bool {
	switch s {
	case Critical, High, Medium, Low:
		return true
	}
	return false
}

// Score returns a numeric score for sorting and comparison.
// Critical=4, High=3, Medium=2, Low=1, anything else 0.
func (s Severity) Score() int {
	switch s {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// String returns the severity as a string.
func (s Severity) String() string {
	return string(s)
}

// SeverityTally counts vulnerabilities per known severity.
// The zero value is ready to use and reports zero for every key.
type SeverityTally struct {
	counts [4]int
}

func tallyIndex(s Severity) int {
	switch s {
	case Critical:
		return 0
	case High:
		return 1
	case Medium:
		return 2
	case Low:
		return 3
	}
	return -1
}

// Add increments the counter for s. Unknown severities are not counted
// and Add returns false for them.
func (t *SeverityTally) Add(s Severity) bool {
	i := tallyIndex(s)
	if i < 0 {
		return false
	}
	t.counts[i]++
	return true
}

// Get returns the count for s, or 0 for an unknown severity.
func (t SeverityTally) Get(s Severity) int {
	i := tallyIndex(s)
	if i < 0 {
		return 0
	}
	return t.counts[i]
}

// Total returns the sum of all counters.
func (t SeverityTally) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Map returns the tally keyed by severity name. All four keys are present.
func (t SeverityTally) Map() map[string]int {
	m := make(map[string]int, len(KnownSeverities))
	for _, s := range KnownSeverities {
		m[string(s)] = t.Get(s)
	}
	return m
}
