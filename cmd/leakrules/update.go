package leakrules

import (
	"fmt"
	"time"

	"github.com/arthur-debert/leakrules/pkg/config"
	"github.com/arthur-debert/leakrules/pkg/filesystem"
	"github.com/arthur-debert/leakrules/pkg/logging"
	"github.com/arthur-debert/leakrules/pkg/pipeline"
	"github.com/arthur-debert/leakrules/pkg/source"
	"github.com/spf13/cobra"
)

// updateFlags holds the flags shared by the root command and update
type updateFlags struct {
	configFile    string
	source        string
	output        string
	format        string
	exclude       []string
	missingFields string
	timeout       time.Duration
	dryRun        bool
	quiet         bool
}

func (f *updateFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.configFile, "config", "c", "", MsgFlagConfig)
	fl.StringVarP(&f.source, "source", "s", "", MsgFlagSource)
	fl.StringVarP(&f.output, "output", "o", "", MsgFlagOutput)
	fl.StringVar(&f.format, "format", "", MsgFlagFormat)
	fl.StringArrayVarP(&f.exclude, "exclude", "x", nil, MsgFlagExclude)
	fl.StringVar(&f.missingFields, "missing-fields", "", MsgFlagMissingFields)
	fl.DurationVar(&f.timeout, "timeout", 0, MsgFlagTimeout)
	fl.BoolVar(&f.dryRun, "dry-run", false, MsgFlagDryRun)
	fl.BoolVarP(&f.quiet, "quiet", "q", false, MsgFlagQuiet)
}

// overrides returns config keys for the flags set on the command line
func (f *updateFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	changed := cmd.Flags().Changed
	out := map[string]interface{}{}

	if changed("source") {
		out["source.url"] = f.source
	}
	if changed("output") {
		out["output.path"] = f.output
	}
	if changed("format") {
		out["source.format"] = f.format
	}
	if changed("exclude") {
		out["filter.exclude_ids"] = append([]string{}, f.exclude...)
	}
	if changed("missing-fields") {
		out["filter.missing_fields"] = f.missingFields
	}
	if changed("timeout") {
		out["source.timeout"] = f.timeout.String()
	}
	return out
}

func newUpdateCmd() *cobra.Command {
	flags := &updateFlags{}
	cmd := &cobra.Command{
		Use:     "update",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runUpdate(cmd *cobra.Command, flags *updateFlags) error {
	logger := logging.GetLogger("cmd.update")

	cfg, err := config.Load(config.LoadOptions{
		File:      flags.configFile,
		Overrides: flags.overrides(cmd),
	})
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}

	mode, err := cfg.FileMode()
	if err != nil {
		return fmt.Errorf(MsgErrLoadConfig, err)
	}

	logger.Info().
		Str("source", cfg.Source.URL).
		Str("output", cfg.Output.Path).
		Strs("exclude", cfg.Filter.ExcludeIDs).
		Bool("dry_run", flags.dryRun).
		Msg("Updating rule set")

	fsys := filesystem.NewOS()
	result, err := pipeline.Run(cmd.Context(), pipeline.Options{
		Fetcher:    source.New(fsys, cfg.HTTPOptions()),
		FS:         fsys,
		Location:   cfg.Source.URL,
		Format:     cfg.DocumentFormat(),
		RulesKey:   cfg.Source.RulesKey,
		Selector:   cfg.SelectorOptions(),
		OutputPath: cfg.Output.Path,
		OutputMode: mode,
		DryRun:     flags.dryRun,
	})
	if err != nil {
		return fmt.Errorf(MsgErrUpdate, err)
	}

	out := cmd.OutOrStdout()
	if flags.dryRun {
		fmt.Fprint(out, string(result.Output))
		fmt.Fprintf(cmd.ErrOrStderr(), MsgDryRunNotice, result.OutputPath)
		return nil
	}

	if !flags.quiet {
		if err := renderReport(out, result.Report); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, MsgWrittenFormat, len(result.Rules), result.OutputPath)
	return nil
}
