// Package pipeline runs the extraction end to end: fetch the upstream
// document, decode it, select and normalize rules, encode the rule set and
// write it atomically.
package pipeline

import (
	"context"
	"io/fs"

	"github.com/arthur-debert/leakrules/pkg/decoder"
	"github.com/arthur-debert/leakrules/pkg/filesystem"
	"github.com/arthur-debert/leakrules/pkg/logging"
	"github.com/arthur-debert/leakrules/pkg/rules"
	"github.com/arthur-debert/leakrules/pkg/ruleset"
	"github.com/arthur-debert/leakrules/pkg/source"
)

// Options configures one run
type Options struct {
	Fetcher  source.Fetcher
	FS       filesystem.FS
	Location string
	Format   decoder.Format
	RulesKey string
	Selector rules.Options

	OutputPath string
	OutputMode fs.FileMode
	// DryRun skips the write; the encoded rule set is still returned
	DryRun bool
}

// Result describes a finished run
type Result struct {
	Rules      []rules.Rule
	Report     *rules.Report
	Output     []byte
	OutputPath string
	Written    bool
}

// Run executes the stages in order. Any failure aborts the run before the
// artifact is touched.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("pipeline")

	done := logging.LogOperationStart(logger, "fetch")
	raw, err := opts.Fetcher.Fetch(ctx, opts.Location)
	if err != nil {
		return nil, err
	}
	done()

	done = logging.LogOperationStart(logger, "decode")
	records, err := decoder.Decode(raw, decoder.Options{
		Format:   opts.Format,
		Location: opts.Location,
		RulesKey: opts.RulesKey,
	})
	if err != nil {
		return nil, err
	}
	done()
	logger.Info().Int("records", len(records)).Msg("Decoded rule document")

	done = logging.LogOperationStart(logger, "select")
	selected, report, err := rules.NewSelector(opts.Selector).Select(records)
	if err != nil {
		return nil, err
	}
	done()
	logger.Info().
		Int("kept", report.Kept).
		Int("missing_regex", report.MissingRegex).
		Int("missing_keywords", report.MissingKeywords).
		Int("excluded", report.Excluded).
		Int("missing_field", report.MissingField).
		Msg("Selected rules")

	done = logging.LogOperationStart(logger, "encode")
	output, err := ruleset.Marshal(selected)
	if err != nil {
		return nil, err
	}
	done()

	result := &Result{
		Rules:      selected,
		Report:     report,
		Output:     output,
		OutputPath: opts.OutputPath,
	}

	if opts.DryRun {
		logger.Info().Str("path", opts.OutputPath).Msg("Dry run, rule set not written")
		return result, nil
	}

	mode := opts.OutputMode
	if mode == 0 {
		mode = 0644
	}

	done = logging.LogOperationStart(logger, "write")
	if err := filesystem.WriteFileAtomic(opts.FS, opts.OutputPath, output, mode); err != nil {
		return nil, err
	}
	done()

	result.Written = true
	logger.Info().Str("path", opts.OutputPath).Int("bytes", len(output)).Msg("Wrote rule set")
	return result, nil
}
