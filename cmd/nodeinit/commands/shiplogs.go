package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/nodeinit/cmd/nodeinit/handlers"
)

// ShipLogs returns the command that uploads the init script logs.
func ShipLogs() *cobra.Command {
	var (
		configPath string
		host       string
	)

	cmd := &cobra.Command{
		Use:   "ship-logs",
		Short: "Upload init script logs to S3-compatible storage",
		Long: `Upload the background init script logs of this node.

Objects are written to {prefix}/{host}/{log file} in the configured bucket.
Credentials are read from NODEINIT_S3_ACCESS_KEY and NODEINIT_S3_SECRET_KEY.
Log files that do not exist are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ShipLogs(cmd.Context(), configPath, host)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&host, "host", "", "Host segment of the object keys (default: hostname)")

	return cmd
}
