package models

import (
	"strings"
	"unicode"
)

// StudentRecord is one student entry under Classes/{class}/{section}/{key}.
// Writes replace the whole record; there is no field-level merge.
type StudentRecord struct {
	Name           string `json:"name"`
	SpecialNeeds   string `json:"specialNeeds"`
	Progress       string `json:"progress"`
	Accommodations string `json:"accommodations"`
	Notes          string `json:"notes"`
	CreatedBy      string `json:"createdBy"`
	LastUpdated    int64  `json:"lastUpdated"` // epoch milliseconds
}

// Valid reports whether a record read from the store is well formed enough
// to show. Records without a name are considered malformed.
func (r *StudentRecord) Valid() bool {
	return r.Name != ""
}

// StudentKeyFromName derives the storage key for a student: the trimmed name
// with every non-alphanumeric rune replaced by an underscore. The result is
// a safe path segment, and the derivation is idempotent.
func StudentKeyFromName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
