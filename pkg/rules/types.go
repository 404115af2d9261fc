package rules

import (
	"fmt"
	"strings"
)

// DefaultExcludedID is the rule dropped when no exclusion list is configured
const DefaultExcludedID = "generic-api-key"

// Field names read from upstream rule records
const (
	FieldRegex       = "regex"
	FieldID          = "id"
	FieldKeywords    = "keywords"
	FieldDescription = "description"
	FieldEntropy     = "entropy"
)

// Rule is a normalized rule as written to the rule set. Field order is the
// serialized key order.
type Rule struct {
	Regex       string   `json:"regex"`
	Description string   `json:"description"`
	ID          string   `json:"id"`
	Keywords    []string `json:"keywords"`
	// Entropy is nil when the upstream rule sets no threshold
	Entropy *float64 `json:"entropy"`
}

// HasEntropy reports whether the rule carries an entropy threshold
func (r Rule) HasEntropy() bool {
	return r.Entropy != nil
}

// MissingFieldPolicy decides what happens to a selected record that lacks
// id or description
type MissingFieldPolicy string

const (
	// PolicyFail aborts the whole run
	PolicyFail MissingFieldPolicy = "fail"
	// PolicySkip drops the record and counts it
	PolicySkip MissingFieldPolicy = "skip"
)

// ParseMissingFieldPolicy converts a config string into a policy
func ParseMissingFieldPolicy(s string) (MissingFieldPolicy, error) {
	switch p := MissingFieldPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyFail, PolicySkip:
		return p, nil
	case "":
		return PolicyFail, nil
	default:
		return "", fmt.Errorf("unknown missing field policy %q (want %q or %q)", s, PolicyFail, PolicySkip)
	}
}

// Report summarizes the decisions taken for one selection pass
type Report struct {
	Total           int
	Kept            int
	MissingRegex    int
	MissingKeywords int
	Excluded        int
	MissingField    int
	WithEntropy     int
}

// Skipped is the number of records that did not make it into the output
func (r Report) Skipped() int {
	return r.MissingRegex + r.MissingKeywords + r.Excluded + r.MissingField
}
