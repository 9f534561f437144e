// Package proc wraps the unix primitives the shell's job control rests on:
// spawning a child into its own process group, signalling a whole group,
// and reaping child status changes without blocking.
//
// These are the only places the shell talks to the kernel about children.
// Everything above this package works with plain pids and Status values,
// which keeps the job-control logic testable with fakes.
package proc
