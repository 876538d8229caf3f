package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/nodeinit/cmd/nodeinit/handlers"
)

// Run returns the command that bootstraps the node.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML (default: /etc/nodeinit/nodeinit.yaml if present)
//	--role: Use this role instead of querying instance metadata
//	--dry-run: Log the steps without installing, cloning or launching anything
//	--metrics-file: Write step metrics in node_exporter textfile format
func Run() *cobra.Command {
	var (
		opts handlers.RunOptions
		role string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap this node",
		Long: `Bootstrap this node.

Every node installs the shared dependencies. The node whose role attribute
matches the leader role additionally:

  - clones the helper repository
  - links it into the link directory
  - makes the init scripts executable
  - installs the leader's OS packages
  - starts the init scripts in the background, each logging to its own file

The command returns as soon as the init scripts are started. Use
'nodeinit ship-logs' to collect their output.

Examples:
  # Bootstrap with the default configuration
  nodeinit run

  # Preview the leader setup on any machine
  nodeinit run --role Master --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Role = nil
			if cmd.Flags().Changed("role") {
				opts.Role = &role
			}
			return handlers.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: /etc/nodeinit/nodeinit.yaml if present)")
	cmd.Flags().StringVar(&role, "role", "", "Role to assume instead of reading instance metadata")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Log the steps without executing them")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write metrics to this node_exporter textfile")

	return cmd
}
