package commands

import (
	"fmt"
	"time"

	"neowatch/internal/filters"
	"neowatch/internal/models"
	"neowatch/internal/service"
	"neowatch/internal/stream"
	"neowatch/pkg/logger"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type queryFlags struct {
	date, startDate, endDate string
	since, until             string

	minDistance, maxDistance float64
	minVelocity, maxVelocity float64
	minDiameter, maxDiameter float64

	hazardous, notHazardous bool
	designation, name       string

	limit   int
	outfile string
}

func newQueryCmd(a *app) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query close approaches that match every given criterion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := qf.criteria(cmd.Flags())
			if err != nil {
				return err
			}

			db, _, err := a.loadDatabase(cmd.Context())
			if err != nil {
				return err
			}

			fs := filters.Build(criteria)
			a.log.Debugw("Running query", "filters", describe(fs), "limit", qf.limit)

			results := db.Query(fs...)
			limited := stream.Limit(results.All(), qf.limit)

			var n int
			if qf.outfile == "" {
				out := cmd.OutOrStdout()
				for ca := range limited {
					fmt.Fprintln(out, ca)
					n++
				}
			} else {
				n, err = service.NewExportService(a.log).Write(qf.outfile, limited)
				if err != nil {
					return err
				}
			}

			// поток оборвался на сближении без NEO
			if err := results.Err(); err != nil {
				a.log.Warnw("Query stopped early", logger.FieldCount, n, logger.FieldError, err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&qf.date, "date", "d", "", "Only approaches on this date (YYYY-MM-DD)")
	f.StringVarP(&qf.startDate, "start-date", "s", "", "Only approaches on or after this date (YYYY-MM-DD)")
	f.StringVarP(&qf.endDate, "end-date", "e", "", "Only approaches on or before this date (YYYY-MM-DD)")
	f.StringVar(&qf.since, "since", "", "Only approaches at or after this moment (YYYY-MM-DD HH:MM, UTC)")
	f.StringVar(&qf.until, "until", "", "Only approaches at or before this moment (YYYY-MM-DD HH:MM, UTC)")
	f.Float64Var(&qf.minDistance, "min-distance", 0, "Minimum approach distance in au")
	f.Float64Var(&qf.maxDistance, "max-distance", 0, "Maximum approach distance in au")
	f.Float64Var(&qf.minVelocity, "min-velocity", 0, "Minimum relative velocity in km/s")
	f.Float64Var(&qf.maxVelocity, "max-velocity", 0, "Maximum relative velocity in km/s")
	f.Float64Var(&qf.minDiameter, "min-diameter", 0, "Minimum NEO diameter in km")
	f.Float64Var(&qf.maxDiameter, "max-diameter", 0, "Maximum NEO diameter in km")
	f.BoolVar(&qf.hazardous, "hazardous", false, "Only potentially hazardous NEOs")
	f.BoolVar(&qf.notHazardous, "not-hazardous", false, "Only NEOs that are not potentially hazardous")
	f.StringVar(&qf.designation, "designation", "", "Only approaches with this primary designation")
	f.StringVar(&qf.name, "neo-name", "", "Only approaches of the NEO with this name")
	f.IntVarP(&qf.limit, "limit", "l", 0, "Maximum number of results, 0 means no limit")
	f.StringVarP(&qf.outfile, "outfile", "o", "", "Write results to a .csv, .json or .xlsx file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("hazardous", "not-hazardous")

	return cmd
}

// criteria converts the flags that were set into query criteria
func (qf *queryFlags) criteria(flags *pflag.FlagSet) (filters.Criteria, error) {
	var (
		c   filters.Criteria
		err error
	)

	if c.Date, err = parseFlagTime(qf.date, time.DateOnly, "date"); err != nil {
		return c, err
	}
	if c.StartDate, err = parseFlagTime(qf.startDate, time.DateOnly, "start-date"); err != nil {
		return c, err
	}
	if c.EndDate, err = parseFlagTime(qf.endDate, time.DateOnly, "end-date"); err != nil {
		return c, err
	}
	if c.Since, err = parseFlagTime(qf.since, models.OutputLayout, "since"); err != nil {
		return c, err
	}
	if c.Until, err = parseFlagTime(qf.until, models.OutputLayout, "until"); err != nil {
		return c, err
	}

	c.DistanceMin = changedFloat(flags, "min-distance", qf.minDistance)
	c.DistanceMax = changedFloat(flags, "max-distance", qf.maxDistance)
	c.VelocityMin = changedFloat(flags, "min-velocity", qf.minVelocity)
	c.VelocityMax = changedFloat(flags, "max-velocity", qf.maxVelocity)
	c.DiameterMin = changedFloat(flags, "min-diameter", qf.minDiameter)
	c.DiameterMax = changedFloat(flags, "max-diameter", qf.maxDiameter)

	switch {
	case qf.hazardous:
		c.Hazardous = boolPtr(true)
	case qf.notHazardous:
		c.Hazardous = boolPtr(false)
	}

	c.Designation = qf.designation
	c.Name = qf.name
	return c, nil
}

func parseFlagTime(value, layout, flag string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --%s", flag)
	}
	return &t, nil
}

func changedFloat(flags *pflag.FlagSet, name string, value float64) *float64 {
	if !flags.Changed(name) {
		return nil
	}
	return &value
}

func describe(fs []filters.AttributeFilter) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}

func boolPtr(b bool) *bool {
	return &b
}
