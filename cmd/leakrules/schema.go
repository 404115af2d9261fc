package leakrules

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: MsgSchemaShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := MsgSchemaDoc
			if !raw && isTerminal(cmd.OutOrStdout()) {
				content = renderMarkdown(content)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), content)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, MsgFlagRaw)
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// renderMarkdown renders content for the terminal, falling back to the
// plain markdown on error
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
