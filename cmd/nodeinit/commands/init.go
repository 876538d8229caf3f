package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/nodeinit/cmd/nodeinit/handlers"
	"github.com/imamik/nodeinit/internal/config"
)

// Init returns the command that writes the default configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "/etc/nodeinit/nodeinit.yaml")
//	--force, -f: Overwrite an existing file
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the built-in default configuration to a file.

The file documents every setting with its default value and can be
edited before baking it into the node image.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigPath, "Output file path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
