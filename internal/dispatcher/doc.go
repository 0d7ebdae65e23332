// Package dispatcher intercepts every command the host executes and
// routes it to an announcement handler.
//
// The host calls Dispatcher.Dispatch synchronously on its UI thread
// for every user-triggered command. Dispatch applies a re-entrancy
// guard (handlers may themselves trigger sub-commands), detects rapid
// repeat presses of the same command, and routes through the Registry:
// a full override runs instead of native execution; a post hook
// snapshots state around native execution and announces the diff; a
// static message executes natively and speaks a fixed string; and any
// remaining command that the host reports as a toggle falls back to
// the generic toggle diff.
//
// Nothing propagates above Dispatch: handler panics are recovered,
// the guard is restored, and nothing is announced. An unannounced
// command is far less harmful than an incorrect or crashing one.
package dispatcher
