package main

import (
	"fmt"

	"github.com/chazu/detgeom/pkg/detector"
	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/chazu/detgeom/pkg/units"
	"github.com/spf13/cobra"
)

func insideCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inside [file]",
		Short: "Test whether a point lies inside the detector",
		Long: `Test a point against the detector. Coordinates are in the units the
description declares: --r --phi --z for cylindrical grids, --x --y --z for
Cartesian ones. Without --class the point counts as inside when it lies in a
contact or a semiconductor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.Load(args[0])
			if err != nil {
				return err
			}
			p := c.point(d)

			inside := d.IsInside(p)
			if name := c.v.GetString("class"); name != "" {
				class, ok := detector.ParseClass(name)
				if !ok {
					return fmt.Errorf("unknown object class %q", name)
				}
				inside = d.IsInsideClass(class, p)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "point:  %s\n", p)
			fmt.Fprintf(out, "inside: %t\n", inside)
			if o, ok := d.Locate(p); ok {
				fmt.Fprintf(out, "object: %s\n", o.Label())
			}
			return nil
		},
	}
	cmd.Flags().Float64("r", 0, "Radius")
	cmd.Flags().Float64("phi", 0, "Azimuth")
	cmd.Flags().Float64("x", 0, "X coordinate")
	cmd.Flags().Float64("y", 0, "Y coordinate")
	cmd.Flags().Float64("z", 0, "Z coordinate")
	cmd.Flags().String("class", "", "Restrict the test to Semiconductor, Contact or Passive objects")
	c.bind(cmd.Flags())
	return cmd
}

// point reads the query point from the flags and converts it to metres.
func (c *cli) point(d *detector.Detector) kernel.Vec3 {
	tbl := d.Units()
	length := func(key string) float64 { return tbl.ToCanonical(units.Length, c.v.GetFloat64(key)) }
	if d.Coordinates() == detector.Cartesian {
		return kernel.Vec3{X: length("x"), Y: length("y"), Z: length("z")}
	}
	return kernel.CylPoint{
		R:   length("r"),
		Phi: tbl.ToCanonical(units.Angle, c.v.GetFloat64("phi")),
		Z:   length("z"),
	}.Cart()
}
