package policy

import "strings"

// Tie-break orders recognised by the ledger when two candidates rank equal on
// priority, fuel state and lateness.
const (
	// TieBreakDescending selects the lexically greater id. This matches the
	// reference implementation, even though it yields reverse-alphabetical
	// precedence.
	TieBreakDescending = "desc"

	// TieBreakAscending selects the lexically smaller id (first-come
	// intuition for ids issued in order).
	TieBreakAscending = "asc"
)

// Policy represents the selection settings for a simulation run.
//
//   - TieBreak controls the final id comparison (desc / asc).
//
// Arrivals are always considered before departures regardless of policy; that
// safety bias is not configurable.
type Policy struct {
	TieBreak string // desc / asc (default = desc)
}

// Default returns the reference selection policy.
func Default() *Policy {
	return &Policy{TieBreak: TieBreakDescending}
}

// PreferSmallerID reports whether the id tie-break favours the lexically
// smaller id. A nil policy keeps the reference descending order.
func (p *Policy) PreferSmallerID() bool {
	if p == nil {
		return false
	}
	return strings.EqualFold(p.TieBreak, TieBreakAscending)
}

// Config is the serialisable representation of a Policy.
type Config struct {
	TieBreak string `json:"tieBreak,omitempty" yaml:"tieBreak,omitempty"`
}

// FromConfig converts a stored Config into a runtime Policy.
func FromConfig(c *Config) *Policy {
	if c == nil || c.TieBreak == "" {
		return Default()
	}
	return &Policy{TieBreak: c.TieBreak}
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{TieBreak: p.TieBreak}
}
