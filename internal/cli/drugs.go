package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDrugsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drugs [name]",
		Short: "List the catalog or show one drug profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, err := loadSnapshot(cmd, opts)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				drug, ok := cat.Get(args[0])
				if !ok {
					return fmt.Errorf("drug not found: %s", args[0])
				}
				return printJSON(cmd.OutOrStdout(), drug)
			}

			entries := cat.Entries()
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"drugs": entries,
				"count": len(entries),
			})
		},
	}
}
