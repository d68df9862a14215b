package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// lookup graph:list
func newGraphListCmd(c *cli) *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "graph:list",
		Short: "List the component graph and what has been built",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()

			g := c.graph(cmd)
			if resolve {
				if _, err := g.App(); err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "COMPONENT\tBUILT\tATTEMPTS")
			fmt.Fprintln(w, "---------\t-----\t--------")
			for _, b := range g.Bindings() {
				fmt.Fprintf(w, "%s\t%t\t%d\n", b.Name, b.Resolved, b.Attempts)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "build the full graph before listing")
	return cmd
}
