package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewPingCommand creates the ping command.
func NewPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity and server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.Ping(ctx); err != nil {
				color.Red("✗ connection failed: %v", err)
				return err
			}

			version, err := c.ServerVersion(ctx)
			if err != nil {
				return err
			}
			if err := c.CheckServerVersion(ctx); err != nil {
				color.Yellow("! %v", err)
			}

			color.Green("✓ connected (%s %s)", c.Driver(), version)
			return nil
		},
	}
}
