package main

import (
	"fmt"
	"time"

	"github.com/chazu/detgeom/pkg/sample"
	"github.com/chazu/detgeom/pkg/units"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func sampleCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [file]",
		Short: "Draw random interior points",
		Long: `Draw points inside a cylindrical detector that avoid every contact and keep
--clearance from the detector boundary along r and z. Points are printed as
r, phi, z in the units the description declares, one per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.Load(args[0])
			if err != nil {
				return err
			}
			b, err := sample.WorldBounds(d)
			if err != nil {
				return err
			}
			tbl := d.Units()

			reg := prometheus.NewRegistry()
			opts := []sample.Option{sample.WithMetrics(sample.NewMetrics(reg))}
			if n := c.v.GetInt("max-attempts"); n > 0 {
				opts = append(opts, sample.WithMaxAttempts(n))
			}

			start := time.Now()
			pts, err := sample.Parallel(cmd.Context(), d,
				c.v.GetInt("count"), b,
				tbl.ToCanonical(units.Length, c.v.GetFloat64("clearance")),
				c.v.GetUint64("seed"), c.v.GetInt("workers"), opts...)
			if err != nil {
				return err
			}
			c.app.logger.Info("sampling finished",
				"points", len(pts),
				"draws", counterTotal(reg, "detgeom_sample_draws_total"),
				"elapsed", time.Since(start))

			out := cmd.OutOrStdout()
			for _, p := range pts {
				fmt.Fprintf(out, "%g\t%g\t%g\n",
					tbl.FromCanonical(units.Length, p.R),
					tbl.FromCanonical(units.Angle, p.Phi),
					tbl.FromCanonical(units.Length, p.Z))
			}
			return nil
		},
	}
	cmd.Flags().IntP("count", "n", 100, "Number of points")
	cmd.Flags().Float64("clearance", 0.001, "Minimum distance from the detector boundary")
	cmd.Flags().Uint64("seed", 1, "Random seed")
	cmd.Flags().Int("workers", 1, "Number of sampling workers")
	cmd.Flags().Int("max-attempts", 0, "Candidate draws per worker before giving up; 0 for no limit")
	c.bind(cmd.Flags())
	return cmd
}

// counterTotal sums every series of the named counter family.
func counterTotal(g prometheus.Gatherer, name string) float64 {
	mfs, err := g.Gather()
	if err != nil {
		return 0
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		return sum
	}
	return 0
}
