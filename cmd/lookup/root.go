package main

import (
	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/lookup/app/graph"
	"github.com/shashiranjanraj/lookup/config"
)

// cli carries the flags shared by every command and the graph they resolve
// components from.
type cli struct {
	driver string
	dsn    string
	addr   string

	g *graph.Graph
}

// graph builds the component graph on first use, after flags are parsed.
func (c *cli) graph(cmd *cobra.Command) *graph.Graph {
	if c.g == nil {
		c.g = graph.New(graph.Options{
			Driver: c.driver,
			DSN:    c.dsn,
			Out:    cmd.OutOrStdout(),
		})
	}
	return c.g
}

func (c *cli) close() error {
	if c.g == nil {
		return nil
	}
	return c.g.Close()
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	var migrate, run bool

	root := &cobra.Command{
		Use:   "lookup",
		Short: "User lookup HTTP service",
		Long:  "lookup serves user records by screen name over HTTP and prepares the store they live in.",
		Args:  cobra.ArbitraryArgs,

		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case migrate:
				return c.migrate(cmd)
			case run:
				return c.serve(cmd)
			default:
				return cmd.Help()
			}
		},
	}

	root.Flags().BoolVar(&migrate, "migrate", false, "create the schema and seed the canonical users")
	root.Flags().BoolVar(&run, "run", false, "serve HTTP")

	root.PersistentFlags().StringVar(&c.driver, "driver", "", "database driver (default from DB_DRIVER)")
	root.PersistentFlags().StringVar(&c.dsn, "dsn", "", "database DSN or sqlite path (default from DATABASE_DSN)")
	root.PersistentFlags().StringVar(&c.addr, "addr", "", "listen address (default APP_HOST:APP_PORT)")

	root.AddCommand(
		newMigrateCmd(c),
		newServeCmd(c),
		newRouteListCmd(c),
		newGraphListCmd(c),
	)

	return root
}
