// Package commands implements the goquent CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/goquent/goquent/internal/debug"
	"github.com/goquent/goquent/runtime/client"
	"github.com/goquent/goquent/runtime/config"
)

var debugFlag bool

// Execute builds the root command and runs it.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   "goquent",
		Short: "Query runner for goquent-managed databases",
		Long:  "goquent connects with the configured database settings and runs ad-hoc statements through the query pipeline.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				debug.Init(true)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewPingCommand())
	rootCmd.AddCommand(NewExecCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd.Execute()
}

// connect loads the configuration and opens a client.
func connect() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		debug.Init(true)
	}
	return client.Open(cfg)
}
