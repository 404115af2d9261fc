package leakrules

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arthur-debert/leakrules/pkg/rules"
	"github.com/pterm/pterm"
)

// renderReport prints the selection counts as a table
func renderReport(w io.Writer, report *rules.Report) error {
	data := pterm.TableData{
		{"Outcome", "Rules"},
		{"kept", strconv.Itoa(report.Kept)},
		{"  with entropy threshold", strconv.Itoa(report.WithEntropy)},
		{"no regex", strconv.Itoa(report.MissingRegex)},
		{"no keywords", strconv.Itoa(report.MissingKeywords)},
		{"excluded id", strconv.Itoa(report.Excluded)},
		{"missing id or description", strconv.Itoa(report.MissingField)},
		{"total", strconv.Itoa(report.Total)},
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, table)
	return err
}

// renderRules prints one row per rule in file order
func renderRules(w io.Writer, ruleList []rules.Rule) error {
	if len(ruleList) == 0 {
		_, err := fmt.Fprintln(w, MsgNoRules)
		return err
	}

	data := pterm.TableData{{"#", "ID", "Keywords", "Entropy"}}
	withEntropy := 0
	for i, r := range ruleList {
		entropy := MsgEntropyAbsent
		if r.HasEntropy() {
			entropy = strconv.FormatFloat(*r.Entropy, 'g', -1, 64)
			withEntropy++
		}
		data = append(data, []string{strconv.Itoa(i + 1), r.ID, strconv.Itoa(len(r.Keywords)), entropy})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, MsgInspectSummary, len(ruleList), withEntropy)
	return err
}
