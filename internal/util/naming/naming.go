package naming

import (
	"path"
	"path/filepath"
	"strings"
)

// LogObjectKey is the object key a background task log is shipped under:
// {prefix}/{host}/{file}. Empty prefix is dropped.
func LogObjectKey(prefix, host, logFile string) string {
	return path.Join(strings.Trim(prefix, "/"), Host(host), filepath.Base(logFile))
}

// Host normalizes a hostname for use as a key segment: lowercase, the
// short name only, anything outside [a-z0-9-] replaced with '-'.
func Host(host string) string {
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}

	var b strings.Builder
	for _, r := range host {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}
	if b.Len() == 0 {
		return "unknown-host"
	}
	return b.String()
}

// TaskName is the background task name for a script.
func TaskName(scriptName string) string {
	return "init-" + scriptName
}
