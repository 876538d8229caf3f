// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the nodeinit CLI.
//
// Invoked without a subcommand it runs the bootstrap with default flags,
// which is how the cluster's init hook calls it.
func Root() *cobra.Command {
	run := Run()

	cmd := &cobra.Command{
		Use:           "nodeinit",
		Short:         "Initialize a data-processing cluster node",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          run.RunE,
	}
	cmd.Flags().AddFlagSet(run.Flags())

	// Core commands
	cmd.AddCommand(run)
	cmd.AddCommand(Role())
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Init())
	cmd.AddCommand(ShipLogs())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
