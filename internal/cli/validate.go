package cli

import (
	"fmt"

	"github.com/rxcheck/ddi/internal/bootstrap"
	"github.com/rxcheck/ddi/pkg/catalog"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the snapshot and report what it contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, table, err := loadSnapshot(cmd, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d drugs, %d interactions\n", opts.cfg.SnapshotURI, cat.Len(), table.Len())
			return nil
		},
	}
}

// loadSnapshot reads the catalog without building the optional layers.
func loadSnapshot(cmd *cobra.Command, opts *options) (*catalog.Catalog, *catalog.InteractionTable, error) {
	src, err := bootstrap.OpenSource(cmd.Context(), opts.cfg)
	if err != nil {
		return nil, nil, err
	}
	return bootstrap.LoadSnapshot(cmd.Context(), src)
}
