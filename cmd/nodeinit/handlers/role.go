package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imamik/nodeinit/internal/bootstrap"
)

// RoleStatus is the output of the role command.
type RoleStatus struct {
	Attribute string `json:"attribute"`
	Role      string `json:"role"`
	Leader    bool   `json:"leader"`
}

// Role prints the node role as read from instance metadata and whether it
// selects the leader setup.
func Role(ctx context.Context, configPath string, jsonOutput bool) error {
	ctx, cfg, err := setup(ctx, configPath)
	if err != nil {
		return err
	}

	roles, err := roleSource(cfg, newRunner(), nil)
	if err != nil {
		return err
	}

	value, err := roles.Attribute(ctx, cfg.Metadata.Attribute)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cfg.Metadata.Attribute, err)
	}

	role := bootstrap.Role(value)
	status := RoleStatus{
		Attribute: cfg.Metadata.Attribute,
		Role:      value,
		Leader:    role.IsLeader(cfg.Metadata.LeaderRole),
	}

	if jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal role: %w", err)
		}
		_, _ = fmt.Fprintln(stdout, string(data))
		return nil
	}

	_, _ = fmt.Fprintf(stdout, "%s: %s\n", status.Attribute, role)
	_, _ = fmt.Fprintf(stdout, "leader: %t\n", status.Leader)
	return nil
}
