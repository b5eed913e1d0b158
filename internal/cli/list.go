package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List declared units with their ordinals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, u := range opts.app.Registry.Units() {
				fmt.Fprintf(out, "%d\t%s\t%s:%d\n", u.Ordinal, u.Name, filepath.Base(u.File), u.Line)
			}
			return nil
		},
	}
}
