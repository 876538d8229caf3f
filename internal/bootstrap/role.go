package bootstrap

// Role is the node role read from instance metadata. The empty Role
// means the attribute was not set.
type Role string

// IsLeader reports whether r is exactly the leader sentinel.
func (r Role) IsLeader(sentinel string) bool {
	return sentinel != "" && string(r) == sentinel
}

func (r Role) String() string {
	if r == "" {
		return "<unset>"
	}
	return string(r)
}
