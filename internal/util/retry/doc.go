// Package retry provides exponential backoff retry logic for transient failures.
//
// [Do] retries an operation with configurable max attempts, initial delay
// and maximum delay. The metadata client, the git client and log shipping
// use it; on the bootstrap path the configured retry count defaults to
// zero, so each step is attempted exactly once.
package retry
