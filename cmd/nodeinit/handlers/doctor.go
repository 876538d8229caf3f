package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/nodeinit/internal/bootstrap"
	"github.com/imamik/nodeinit/internal/config"
	"github.com/imamik/nodeinit/internal/ui/report"
	"github.com/imamik/nodeinit/internal/util/prerequisites"
)

// ErrDoctorFailed is returned when at least one doctor check failed.
var ErrDoctorFailed = errors.New("doctor found problems")

var (
	// checkTools looks up the required binaries.
	checkTools = prerequisites.Check

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// Doctor checks whether this node can be bootstrapped: configuration,
// metadata reachability, required tools and leftovers from a previous run.
func Doctor(ctx context.Context, configPath string, jsonOutput bool) error {
	r := report.Report{Title: "nodeinit doctor"}

	ctx, cfg, err := setup(ctx, configPath)
	if err != nil {
		r.Sections = append(r.Sections, report.Section{
			Title:  "Configuration",
			Checks: []report.Check{{Name: "config", Status: report.StatusFail, Detail: err.Error()}},
		})
		return printDoctor(r, jsonOutput)
	}

	r.Sections = append(r.Sections, configSection(configPath))

	metaSection, leader := metadataSection(ctx, cfg)
	r.Sections = append(r.Sections, metaSection)
	r.Sections = append(r.Sections, toolsSection(cfg, leader))
	if leader {
		r.Sections = append(r.Sections, filesystemSection(cfg))
	}

	return printDoctor(r, jsonOutput)
}

func configSection(configPath string) report.Section {
	source := configPath
	if source == "" {
		source = config.DefaultConfigPath
		if !fileExists(source) {
			source = "built-in defaults"
		}
	}
	return report.Section{
		Title:  "Configuration",
		Checks: []report.Check{{Name: "config", Status: report.StatusOK, Detail: source}},
	}
}

// metadataSection queries the role once and reports whether this node
// would run the leader setup.
func metadataSection(ctx context.Context, cfg *config.Config) (report.Section, bool) {
	s := report.Section{Title: "Metadata"}

	roles, err := roleSource(cfg, newRunner(), nil)
	if err != nil {
		s.Checks = append(s.Checks, report.Check{Name: "source", Status: report.StatusFail, Detail: err.Error()})
		return s, false
	}

	value, err := roles.Attribute(ctx, cfg.Metadata.Attribute)
	if err != nil {
		s.Checks = append(s.Checks, report.Check{Name: cfg.Metadata.Attribute, Status: report.StatusFail, Detail: err.Error()})
		return s, false
	}

	role := bootstrap.Role(value)
	leader := role.IsLeader(cfg.Metadata.LeaderRole)
	detail := fmt.Sprintf("%s (worker)", role)
	if leader {
		detail = fmt.Sprintf("%s (leader)", role)
	}
	s.Checks = append(s.Checks, report.Check{Name: cfg.Metadata.Attribute, Status: report.StatusOK, Detail: detail})
	return s, leader
}

func toolsSection(cfg *config.Config, leader bool) report.Section {
	s := report.Section{Title: "Tools"}
	results := checkTools(prerequisites.ForConfig(cfg, leader))
	for _, res := range results.Results {
		c := report.Check{Name: res.Tool.Name, Status: report.StatusOK, Detail: res.Path}
		if !res.Found {
			c.Status = report.StatusWarn
			c.Detail = "not found: " + res.Tool.Description
			if res.Tool.Required {
				c.Status = report.StatusFail
			}
		}
		s.Checks = append(s.Checks, c)
	}
	return s
}

// filesystemSection flags state that makes the leader setup fail.
func filesystemSection(cfg *config.Config) report.Section {
	s := report.Section{Title: "Filesystem"}
	l := cfg.Leader

	clone := report.Check{Name: "clone dir", Status: report.StatusOK, Detail: l.CloneDir}
	if entries, err := os.ReadDir(l.CloneDir); err == nil && len(entries) > 0 {
		clone.Status = report.StatusFail
		clone.Detail = l.CloneDir + " is not empty"
	}
	s.Checks = append(s.Checks, clone)

	link := report.Check{Name: "link", Status: report.StatusOK, Detail: l.LinkPath()}
	if _, err := os.Lstat(l.LinkPath()); err == nil {
		link.Status = report.StatusFail
		link.Detail = l.LinkPath() + " already exists"
	}
	s.Checks = append(s.Checks, link)

	return s
}

func printDoctor(r report.Report, jsonOutput bool) error {
	if jsonOutput {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, _ = fmt.Fprintln(stdout, string(data))
	} else {
		_, _ = fmt.Fprint(stdout, report.Render(r, isInteractiveTTY()))
	}

	if r.Failed() {
		return ErrDoctorFailed
	}
	return nil
}
