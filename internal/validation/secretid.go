package validation

import (
	"fmt"
)

// Lastpass secret ids are decimal numbers of 18 or 19 digits.
const (
	minSecretIDLength = 18
	maxSecretIDLength = 19
)

// ValidationResult contains the result of a validation
type ValidationResult struct {
	Valid   bool     `json:"valid"`
	Invalid []string `json:"invalid,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// IsSecretID reports whether id looks like a Lastpass secret id.
//
// Ids are checked digit by digit rather than parsed: a 19-digit id can
// exceed the int64 range.
func IsSecretID(id string) bool {
	if len(id) < minSecretIDLength || len(id) > maxSecretIDLength {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SecretIDWhitelist validates the ids meant to exempt secrets from warning
// checks. Every invalid id is reported separately so the user can fix the
// whole list in one pass.
func SecretIDWhitelist(ids []string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	for _, id := range ids {
		if !IsSecretID(id) {
			result.Valid = false
			result.Invalid = append(result.Invalid, id)
			result.Errors = append(result.Errors, fmt.Sprintf("'%s' is not a valid secret id", id))
		}
	}
	return result
}
