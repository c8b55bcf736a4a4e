package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func describeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [file]",
		Short: "Summarize a detector description",
		Long:  `Build the detector described by a YAML or Lisp file and print its world, units and objects.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.Load(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), d.String())
			return err
		},
	}
}
