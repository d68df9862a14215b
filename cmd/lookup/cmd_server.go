package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/lookup/config"
	"github.com/shashiranjanraj/lookup/internal/server"
)

// lookup run
func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Aliases: []string{"serve"},
		Short:   "Start the HTTP server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd)
		},
	}
}

func (c *cli) serve(cmd *cobra.Command) error {
	defer c.close()

	handler, err := c.graph(cmd).App()
	if err != nil {
		return err
	}

	addr := c.addr
	if addr == "" {
		addr = config.AppAddr()
	}

	return server.Run(cmd.Context(), server.Config{
		Addr:            addr,
		Handler:         handler,
		ShutdownTimeout: config.ShutdownTimeout(),
	})
}

// lookup route:list
func newRouteListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "List the routes in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer c.close()

			r, err := c.graph(cmd).Router()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range r.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}
