package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/nodeinit/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// writeConfig writes the config to a file.
	writeConfig = config.WriteYAML
)

// Init writes the built-in default configuration to outputPath. An
// existing file is only replaced with force.
func Init(_ context.Context, outputPath string, force bool) error {
	if fileExists(outputPath) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", outputPath)
	}

	cfg := config.Default()
	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	_, _ = fmt.Fprintln(stdout, "Configuration saved!")
	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintf(stdout, "  File:        %s\n", outputPath)
	_, _ = fmt.Fprintf(stdout, "  Leader role: %s=%s\n", cfg.Metadata.Attribute, cfg.Metadata.LeaderRole)
	_, _ = fmt.Fprintf(stdout, "  Repository:  %s\n", cfg.Leader.RepoURL)
	_, _ = fmt.Fprintf(stdout, "  Scripts:     %d\n", len(cfg.Leader.Scripts))
	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout, "Next steps:")
	_, _ = fmt.Fprintf(stdout, "  nodeinit doctor -c %s\n", outputPath)
	_, _ = fmt.Fprintf(stdout, "  nodeinit run -c %s --dry-run\n", outputPath)
}
