package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts bounds individual bootstrap steps. A zero value means the step
// runs without a deadline, which is the default for every step.
type Timeouts struct {
	SharedInstall time.Duration // installSharedDependencies
	RoleDetection time.Duration // detectRole
	RepoFetch     time.Duration // repository clone
	LeaderInstall time.Duration // secondary package install
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, zero is used.
//
// Environment Variables:
//   - NODEINIT_TIMEOUT_SHARED_INSTALL
//   - NODEINIT_TIMEOUT_ROLE_DETECTION
//   - NODEINIT_TIMEOUT_REPO_FETCH
//   - NODEINIT_TIMEOUT_LEADER_INSTALL
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		SharedInstall: parseDuration("NODEINIT_TIMEOUT_SHARED_INSTALL", 0),
		RoleDetection: parseDuration("NODEINIT_TIMEOUT_ROLE_DETECTION", 0),
		RepoFetch:     parseDuration("NODEINIT_TIMEOUT_REPO_FETCH", 0),
		LeaderInstall: parseDuration("NODEINIT_TIMEOUT_LEADER_INSTALL", 0),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set, fails to parse or is negative, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
