package main

import (
	"github.com/spf13/cobra"
)

// lookup migrate
func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users table and seed the canonical users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.migrate(cmd)
		},
	}
}

func (c *cli) migrate(cmd *cobra.Command) error {
	defer c.close()

	svc, err := c.graph(cmd).Migrations()
	if err != nil {
		return err
	}
	return svc.Run(cmd.Context())
}
