// Package shell is the job-control engine: the read loop, the command
// dispatcher, the bg/fg/jobs/quit builtins, and the notification handler
// that turns child status changes into job table updates.
//
// Concurrency model:
//   - The read loop is the main flow. It mutates the job table only inside
//     jobs.Table.Update, holding the table lock across spawn and registration
//     so a child's exit can never be processed before the child is tracked.
//   - SIGCHLD is delivered to a signal goroutine that runs Notifier.Drain,
//     also inside Update. Drain only records Reports; formatting and printing
//     happen on the main flow when it next regains control.
//   - Foreground waits block on the table's condition variable, which Update
//     signals, so notifications stay deliverable while the shell waits.
//
// Error handling:
//   - Bad bg/fg arguments, unknown commands and a full table print their
//     diagnostic and leave the table untouched.
//   - Failures of spawn (fork-level), signal delivery or wait4 are returned
//     as *FatalError; the caller terminates the shell.
package shell
