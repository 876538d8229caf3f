// Package async runs work outside the caller's control flow.
//
// [RunParallel] executes independent foreground tasks and joins their
// errors. [ProcessLauncher] starts fire-and-forget background processes
// and returns a [Handle] the caller may keep or discard; discarding it is
// the explicit decision not to wait.
package async
