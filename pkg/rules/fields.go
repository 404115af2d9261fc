package rules

import (
	"fmt"

	"github.com/arthur-debert/leakrules/pkg/decoder"
	"github.com/arthur-debert/leakrules/pkg/errors"
)

func invalidField(index int, field string, want string, got interface{}) error {
	return errors.Newf(errors.ErrInvalidField,
		"rule record %d: %s must be %s, got %T", index, field, want, got).
		WithDetail("index", index).
		WithDetail("field", field)
}

func stringField(record decoder.RawRecord, field string, index int) (string, error) {
	value := record[field]
	s, ok := value.(string)
	if !ok {
		return "", invalidField(index, field, "a string", value)
	}
	return s, nil
}

// stringListField always returns a non-nil slice so an empty upstream list
// stays an empty list in the output
func stringListField(record decoder.RawRecord, field string, index int) ([]string, error) {
	value := record[field]
	switch list := value.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for j, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, invalidField(index, fmt.Sprintf("%s[%d]", field, j), "a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, invalidField(index, field, "a list of strings", value)
	}
}

// optionalNumberField returns nil when the field is absent or explicitly
// null. Integer values are widened to float64.
func optionalNumberField(record decoder.RawRecord, field string, index int) (*float64, error) {
	value, ok := record[field]
	if !ok {
		return nil, nil
	}

	var f float64
	switch n := value.(type) {
	case nil:
		return nil, nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return nil, invalidField(index, field, "a number", value)
	}
	return &f, nil
}
