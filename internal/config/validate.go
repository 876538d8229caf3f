package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ValidManagers lists the package managers the installer can drive.
var ValidManagers = map[string]bool{
	ManagerPip: true,
	ManagerApt: true,
}

// ValidLogLevels lists the accepted log levels.
var ValidLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"error": true,
}

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	if err := c.validatePackages(); err != nil {
		return fmt.Errorf("packages validation failed: %w", err)
	}
	if err := c.validateMetadata(); err != nil {
		return fmt.Errorf("metadata validation failed: %w", err)
	}
	if err := c.validateLeader(); err != nil {
		return fmt.Errorf("leader validation failed: %w", err)
	}
	if err := c.validateLog(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	if err := c.validateShipping(); err != nil {
		return fmt.Errorf("shipping validation failed: %w", err)
	}
	return nil
}

func (c *Config) validatePackages() error {
	for name, set := range map[string]PackageSet{"shared": c.Packages.Shared, "leader": c.Packages.Leader} {
		if !ValidManagers[set.Manager] {
			return fmt.Errorf("%s: unsupported manager %q (must be pip or apt)", name, set.Manager)
		}
		for _, pkg := range set.Names {
			if strings.TrimSpace(pkg) == "" || strings.HasPrefix(pkg, "-") {
				return fmt.Errorf("%s: invalid package name %q", name, pkg)
			}
		}
	}
	if c.Packages.LockFile == "" {
		return fmt.Errorf("lock_file is required")
	}
	return nil
}

func (c *Config) validateMetadata() error {
	m := c.Metadata
	switch m.Source {
	case MetadataSourceHTTP:
		u, err := url.Parse(m.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid endpoint %q", m.Endpoint)
		}
	case MetadataSourceCommand:
		if m.Command == "" {
			return fmt.Errorf("command is required for the command source")
		}
	default:
		return fmt.Errorf("unsupported source %q (must be http or command)", m.Source)
	}
	if m.Attribute == "" {
		return fmt.Errorf("attribute is required")
	}
	if m.LeaderRole == "" {
		return fmt.Errorf("leader_role is required")
	}
	if m.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", m.Retries)
	}
	if m.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", m.Timeout)
	}
	return nil
}

func (c *Config) validateLeader() error {
	l := c.Leader
	if l.RepoURL == "" {
		return fmt.Errorf("repo_url is required")
	}
	if !filepath.IsAbs(l.CloneDir) {
		return fmt.Errorf("clone_dir must be absolute, got %q", l.CloneDir)
	}
	if !filepath.IsAbs(l.LinkDir) {
		return fmt.Errorf("link_dir must be absolute, got %q", l.LinkDir)
	}
	if l.LinkName == "" || strings.ContainsRune(l.LinkName, filepath.Separator) {
		return fmt.Errorf("link_name must be a single path element, got %q", l.LinkName)
	}
	if filepath.IsAbs(l.LinkSubpath) || strings.HasPrefix(filepath.Clean(l.LinkSubpath), "..") {
		return fmt.Errorf("link_subpath must stay inside the clone, got %q", l.LinkSubpath)
	}

	names := make(map[string]bool, len(l.Scripts))
	logs := make(map[string]bool, len(l.Scripts))
	for i, s := range l.Scripts {
		if s.Name == "" {
			return fmt.Errorf("scripts[%d]: name is required", i)
		}
		if s.Path == "" {
			return fmt.Errorf("script %s: path is required", s.Name)
		}
		if s.LogFile == "" {
			return fmt.Errorf("script %s: log_file is required", s.Name)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate script name %q", s.Name)
		}
		logKey := filepath.Clean(s.LogFile)
		if logs[logKey] {
			return fmt.Errorf("script %s: log_file %q is shared with another script", s.Name, s.LogFile)
		}
		names[s.Name] = true
		logs[logKey] = true
	}
	return nil
}

func (c *Config) validateLog() error {
	if !ValidLogLevels[c.Log.Level] {
		return fmt.Errorf("unsupported level %q", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported format %q (must be console or json)", c.Log.Format)
	}
	return nil
}

func (c *Config) validateShipping() error {
	s := c.Shipping
	if s.Bucket != "" && s.Endpoint == "" {
		return fmt.Errorf("endpoint is required when bucket is set")
	}
	if s.Endpoint != "" {
		u, err := url.Parse(s.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid endpoint %q", s.Endpoint)
		}
	}
	if s.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", s.Retries)
	}
	return nil
}

// ScriptPath resolves a script path against the clone directory.
func (l LeaderConfig) ScriptPath(s ScriptConfig) string {
	if filepath.IsAbs(s.Path) {
		return s.Path
	}
	return filepath.Join(l.CloneDir, s.Path)
}

// LinkPath is the location of the symbolic link.
func (l LeaderConfig) LinkPath() string {
	return filepath.Join(l.LinkDir, l.LinkName)
}

// LinkTarget is what the symbolic link points at.
func (l LeaderConfig) LinkTarget() string {
	return filepath.Join(l.CloneDir, l.LinkSubpath)
}
