// Package bootstrap performs one-time node setup at cluster launch.
//
// [Bootstrapper.Run] is a straight-line sequence with one branch:
//
//  1. install the shared dependencies (every node)
//  2. read the node role from instance metadata
//  3. on the leader only: clone the helper repository, link it into
//     place, mark the init scripts executable, install the leader's OS
//     packages, then start the init scripts in the background
//
// The role is read once and passed explicitly to the leader setup. Both
// package installs go through the same [Installer], which serializes on the
// host's package manager lock. Background scripts are started and their
// handles dropped: nothing waits for them and their exit status is only
// visible in their log files.
package bootstrap
