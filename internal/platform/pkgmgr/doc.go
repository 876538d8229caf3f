// Package pkgmgr drives the host package managers (pip, apt-get).
//
// Package managers on a node share a system-wide lock. Every [Installer]
// invocation therefore holds a [Lock] for the whole duration of the
// installer command, so two installs never overlap, whether they come
// from the same process or from another bootstrap phase on the host.
package pkgmgr
