// Package decoder turns an upstream rule configuration document into an
// ordered list of generic rule records.
package decoder

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/arthur-debert/leakrules/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// RawRecord is one upstream rule entry. Every key is optional and values
// keep whatever type the document format produced.
type RawRecord = map[string]interface{}

// DefaultRulesKey is the top-level key holding rule entries in gitleaks.toml
const DefaultRulesKey = "rules"

// Format is the syntax of the upstream document
type Format string

const (
	FormatAuto Format = "auto"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a config string into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatTOML, FormatYAML:
		return f, nil
	case "":
		return FormatAuto, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown document format %q", s)
	}
}

// FormatFromLocation guesses the format from a URL or path extension,
// defaulting to TOML
func FormatFromLocation(location string) Format {
	p := location
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Options controls decoding
type Options struct {
	Format Format
	// Location is used to resolve FormatAuto
	Location string
	// RulesKey is the top-level key holding the rule list
	RulesKey string
}

// Decode parses data and returns the records under the rules key in
// document order. A document without the key yields no records.
func Decode(data []byte, opts Options) ([]RawRecord, error) {
	format := opts.Format
	if format == "" || format == FormatAuto {
		format = FormatFromLocation(opts.Location)
	}

	key := opts.RulesKey
	if key == "" {
		key = DefaultRulesKey
	}

	var doc map[string]interface{}
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrDecode, "failed to parse TOML rule document").
				WithDetail("format", string(format))
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrDecode, "failed to parse YAML rule document").
				WithDetail("format", string(format))
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported document format %q", format)
	}

	return extractRecords(doc, key)
}

func extractRecords(doc map[string]interface{}, key string) ([]RawRecord, error) {
	value, ok := doc[key]
	if !ok || value == nil {
		return nil, errors.Newf(errors.ErrDecode, "document has no top-level %q", key).
			WithDetail("key", key)
	}

	var items []interface{}
	switch list := value.(type) {
	case []interface{}:
		items = list
	case []map[string]interface{}:
		records := make([]RawRecord, len(list))
		copy(records, list)
		return records, nil
	default:
		return nil, errors.Newf(errors.ErrDecode, "top-level %q must be a list of tables, got %T", key, value).
			WithDetail("key", key)
	}

	records := make([]RawRecord, 0, len(items))
	for i, item := range items {
		record, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrDecode, "%s[%d] must be a table, got %T", key, i, item).
				WithDetail("key", key).
				WithDetail("index", i)
		}
		records = append(records, record)
	}
	return records, nil
}
