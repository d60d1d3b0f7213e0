package cli

import (
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <drugA> <drugB>",
		Short: "Assess the interaction between two drugs",
		Long:  `Resolve a drug pair through the curated lookup, the similarity estimate and the explanation chain, and print the assessment as JSON.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Pipeline.Resolve(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
