// Package prerequisites checks that the host tools the bootstrap shells out to are present.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/imamik/nodeinit/internal/config"
)

// Tool represents a host tool that may be required.
type Tool struct {
	// Name is the binary name (or path) to look for.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string
}

// ForConfig returns the tools a run with cfg will invoke. Leader-only tools
// are required only when leader is true.
func ForConfig(cfg *config.Config, leader bool) []Tool {
	tools := []Tool{managerTool(cfg.Packages.Shared, true, "Installs the shared dependencies on every node")}

	if cfg.Metadata.Source == config.MetadataSourceCommand {
		tools = append(tools, Tool{
			Name:        cfg.Metadata.Command,
			Required:    true,
			Description: "Reads the node role from instance metadata",
		})
	}

	tools = append(tools,
		Tool{Name: "git", Required: leader, Description: "Clones the helper repository on the leader"},
		managerTool(cfg.Packages.Leader, leader, "Installs the leader's OS packages"),
		Tool{Name: "bash", Required: leader, Description: "Runs the secondary init scripts on the leader"},
	)
	return dedupe(tools)
}

func managerTool(set config.PackageSet, required bool, desc string) Tool {
	name := set.Binary
	if name == "" {
		switch set.Manager {
		case config.ManagerApt:
			name = "apt-get"
		default:
			name = "pip"
		}
	}
	return Tool{Name: name, Required: required, Description: desc}
}

// dedupe merges tools with the same name; a tool is required if any entry requires it.
func dedupe(tools []Tool) []Tool {
	index := make(map[string]int, len(tools))
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		if i, ok := index[t.Name]; ok {
			out[i].Required = out[i].Required || t.Required
			continue
		}
		index[t.Name] = len(out)
		out = append(out, t)
	}
	return out
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool  Tool
	Found bool
	Path  string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, tool.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := lookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}
