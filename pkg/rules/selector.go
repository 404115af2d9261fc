package rules

import (
	"github.com/arthur-debert/leakrules/pkg/decoder"
	"github.com/arthur-debert/leakrules/pkg/errors"
	"github.com/arthur-debert/leakrules/pkg/logging"
	"github.com/rs/zerolog"
)

// Options configures a Selector
type Options struct {
	// ExcludeIDs lists rule ids that are always dropped. A nil slice means
	// the default list; an empty non-nil slice excludes nothing.
	ExcludeIDs []string

	// MissingFields is the policy for selected records without id or
	// description. Empty means PolicyFail.
	MissingFields MissingFieldPolicy
}

// Selector filters and normalizes raw rule records
type Selector struct {
	excluded map[string]struct{}
	policy   MissingFieldPolicy
	logger   zerolog.Logger
}

// NewSelector creates a Selector from options
func NewSelector(opts Options) *Selector {
	ids := opts.ExcludeIDs
	if ids == nil {
		ids = []string{DefaultExcludedID}
	}

	excluded := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		excluded[id] = struct{}{}
	}

	policy := opts.MissingFields
	if policy == "" {
		policy = PolicyFail
	}

	return &Selector{
		excluded: excluded,
		policy:   policy,
		logger:   logging.GetLogger("rules"),
	}
}

// IsExcluded reports whether id is on the exclusion list
func (s *Selector) IsExcluded(id string) bool {
	_, ok := s.excluded[id]
	return ok
}

// Select returns the normalized rules for records, in record order, along
// with a report of what was dropped and why. It never reorders records.
func (s *Selector) Select(records []decoder.RawRecord) ([]Rule, *Report, error) {
	report := &Report{Total: len(records)}
	result := make([]Rule, 0, len(records))

	for i, record := range records {
		if !has(record, FieldRegex) {
			report.MissingRegex++
			s.trace(i, record, "no regex")
			continue
		}

		if !has(record, FieldKeywords) {
			report.MissingKeywords++
			s.trace(i, record, "no keywords")
			continue
		}

		if missing := missingRequired(record); missing != "" {
			if s.policy == PolicySkip {
				report.MissingField++
				s.logger.Debug().Int("index", i).Str("field", missing).Msg("Skipping rule record with missing field")
				continue
			}
			return nil, report, errors.Newf(errors.ErrMissingField,
				"rule record %d has %s and %s but no %s", i, FieldRegex, FieldKeywords, missing).
				WithDetail("index", i).
				WithDetail("field", missing)
		}

		id, err := stringField(record, FieldID, i)
		if err != nil {
			return nil, report, err
		}

		if s.IsExcluded(id) {
			report.Excluded++
			s.trace(i, record, "excluded id")
			continue
		}

		rule, err := normalize(record, id, i)
		if err != nil {
			return nil, report, err
		}

		if rule.HasEntropy() {
			report.WithEntropy++
		}
		result = append(result, rule)
		report.Kept++
	}

	s.logger.Debug().
		Int("total", report.Total).
		Int("kept", report.Kept).
		Int("skipped", report.Skipped()).
		Msg("Rule selection finished")

	return result, report, nil
}

func (s *Selector) trace(index int, record decoder.RawRecord, reason string) {
	id, _ := record[FieldID].(string)
	s.logger.Trace().Int("index", index).Str("id", id).Str("reason", reason).Msg("Dropping rule record")
}

// normalize copies the five output fields out of a selected record
func normalize(record decoder.RawRecord, id string, index int) (Rule, error) {
	regex, err := stringField(record, FieldRegex, index)
	if err != nil {
		return Rule{}, err
	}

	description, err := stringField(record, FieldDescription, index)
	if err != nil {
		return Rule{}, err
	}

	keywords, err := stringListField(record, FieldKeywords, index)
	if err != nil {
		return Rule{}, err
	}

	entropy, err := optionalNumberField(record, FieldEntropy, index)
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		Regex:       regex,
		Description: description,
		ID:          id,
		Keywords:    keywords,
		Entropy:     entropy,
	}, nil
}

func has(record decoder.RawRecord, field string) bool {
	_, ok := record[field]
	return ok
}

// missingRequired returns the first of id/description absent from record
func missingRequired(record decoder.RawRecord) string {
	for _, field := range []string{FieldID, FieldDescription} {
		if !has(record, field) {
			return field
		}
	}
	return ""
}
