package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/nodeinit/cmd/nodeinit/handlers"
)

// Doctor returns the command for diagnosing whether this node can be bootstrapped.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file
//	--json: Output in JSON format
func Doctor() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that this node can be bootstrapped",
		Long: `Check that this node can be bootstrapped.

  - Loads and validates the configuration
  - Queries the role attribute from instance metadata
  - Looks up the package managers, git and the metadata tool
  - On the leader, reports a non-empty clone directory or an existing link,
    both of which make 'nodeinit run' fail

Exits non-zero when any check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
