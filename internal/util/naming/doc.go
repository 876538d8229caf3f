// Package naming provides consistent names for the objects nodeinit creates.
//
// Shipped log objects follow {prefix}/{host}/{log file}, with the host
// reduced to its short, lowercase name so keys from one cluster sort
// together. Background tasks are named init-{script}.
package naming
