package commands

import (
	"fmt"

	"neowatch/internal/models"

	"github.com/spf13/cobra"
)

const noMatchMessage = "No matching NEOs exist in the database."

func newInspectCmd(a *app) *cobra.Command {
	var (
		pdes    string
		name    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect an NEO by primary designation or by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := a.loadDatabase(cmd.Context())
			if err != nil {
				return err
			}

			var (
				neo   *models.NearEarthObject
				found bool
			)
			if cmd.Flags().Changed("pdes") {
				neo, found = db.GetNEOByDesignation(pdes)
			} else {
				neo, found = db.GetNEOByName(name)
			}

			if !found {
				fmt.Fprintln(cmd.ErrOrStderr(), noMatchMessage)
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, neo)
			if verbose {
				for _, ca := range neo.Approaches {
					fmt.Fprintln(out, "-", ca)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pdes, "pdes", "p", "", "Primary designation of the NEO")
	cmd.Flags().StringVarP(&name, "name", "n", "", "IAU name of the NEO")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the NEO's close approaches")
	cmd.MarkFlagsMutuallyExclusive("pdes", "name")
	cmd.MarkFlagsOneRequired("pdes", "name")

	return cmd
}
