package entities

import (
	"encoding/json"
	"strings"
)

// Level grades priority and severity
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// ParseLevel maps s onto the closed Low/Medium/High set.
// Matching ignores case and surrounding space; anything else is Medium.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return LevelLow
	case "high":
		return LevelHigh
	default:
		return LevelMedium
	}
}

// Valid reports whether l is one of the three canonical levels
func (l Level) Valid() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

// UnmarshalJSON coerces any incoming value into a canonical level
func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// null, numbers, objects
		*l = LevelMedium
		return nil
	}
	*l = ParseLevel(s)
	return nil
}
