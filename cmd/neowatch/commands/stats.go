package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and linking statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, catalog, err := a.loadDatabase(cmd.Context())
			if err != nil {
				return err
			}

			s := db.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "NEOs:               %d\n", s.NEOs)
			fmt.Fprintf(out, "Named NEOs:         %d\n", s.NamedNEOs)
			fmt.Fprintf(out, "Hazardous NEOs:     %d\n", s.HazardousNEOs)
			fmt.Fprintf(out, "Close approaches:   %d\n", s.Approaches)
			fmt.Fprintf(out, "Linked approaches:  %d\n", s.LinkedApproaches)
			if stored := catalog.Stored; stored != nil {
				fmt.Fprintf(out, "Stored NEO rows:    %d\n", stored.NEOs)
				fmt.Fprintf(out, "Stored approaches:  %d\n", stored.Approaches)
			}
			return nil
		},
	}
}
