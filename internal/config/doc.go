// Package config defines the node initialization configuration.
//
// The [Config] struct names every fixed fact the bootstrap uses: the
// packages installed on all nodes and on the leader, the metadata
// attribute that carries the node role, the helper repository and link
// layout, and the background scripts with their log files. It is loaded
// from YAML, with defaults filled in for anything left out, so a node can
// run with no config file at all.
package config
