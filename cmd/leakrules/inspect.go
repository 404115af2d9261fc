package leakrules

import (
	"bytes"
	"fmt"

	"github.com/arthur-debert/leakrules/pkg/config"
	"github.com/arthur-debert/leakrules/pkg/errors"
	"github.com/arthur-debert/leakrules/pkg/filesystem"
	"github.com/arthur-debert/leakrules/pkg/ruleset"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: MsgInspectShort,
		Long:  MsgInspectLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := config.Load(config.LoadOptions{File: configFile})
				if err != nil {
					return fmt.Errorf(MsgErrLoadConfig, err)
				}
				path = cfg.Output.Path
			}

			data, err := filesystem.NewOS().ReadFile(path)
			if err != nil {
				return fmt.Errorf(MsgErrInspect,
					errors.Wrapf(err, errors.ErrInvalidInput, "cannot read %s", path))
			}

			ruleList, err := ruleset.Decode(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf(MsgErrInspect, err)
			}

			return renderRules(cmd.OutOrStdout(), ruleList)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", MsgFlagConfig)
	return cmd
}
