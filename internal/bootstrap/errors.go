package bootstrap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLeader is returned by RunLeaderSetup for a non-leader role.
	ErrNotLeader = errors.New("node is not the leader")

	// ErrLinkExists is returned when the link location is already taken,
	// typically because the bootstrap already ran on this node.
	ErrLinkExists = errors.New("link path already exists")
)

// Step names, used in errors, logs and metrics.
const (
	StepSharedInstall = "shared_install"
	StepRoleDetection = "role_detection"
	StepRepoFetch     = "repo_fetch"
	StepLink          = "link"
	StepPermissions   = "permissions"
	StepLeaderInstall = "leader_install"
	StepLaunch        = "launch"
)

// StepError identifies the bootstrap step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step name carried by err, or "".
func FailedStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}
