// Package ruleset reads and writes the JSON rule set consumed by the
// scanner plugin
package ruleset

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/arthur-debert/leakrules/pkg/errors"
	"github.com/arthur-debert/leakrules/pkg/rules"
)

// Indent is the per-level indentation of the rule set file
const Indent = "    "

// Encode writes ruleList to w as one indented JSON array. Regex text is
// written without HTML escaping so patterns stay readable.
func Encode(w io.Writer, ruleList []rules.Rule) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", Indent)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(prepare(ruleList)); err != nil {
		return errors.Wrap(err, errors.ErrEncode, "failed to encode rule set")
	}
	return nil
}

// Marshal returns the encoded rule set
func Marshal(ruleList []rules.Rule) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, ruleList); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a rule set previously written by Encode
func Decode(r io.Reader) ([]rules.Rule, error) {
	var ruleList []rules.Rule
	if err := json.NewDecoder(r).Decode(&ruleList); err != nil {
		return nil, errors.Wrap(err, errors.ErrDecode, "failed to decode rule set")
	}
	return ruleList, nil
}

// prepare makes nil slices encode as [] instead of null
func prepare(ruleList []rules.Rule) []rules.Rule {
	out := make([]rules.Rule, len(ruleList))
	for i, r := range ruleList {
		if r.Keywords == nil {
			r.Keywords = []string{}
		}
		out[i] = r
	}
	return out
}
