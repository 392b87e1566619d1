// Package looper provides a serial execution context: a single goroutine
// that runs posted tasks one at a time in the order they were posted.
//
// Everything that mutates renderer state runs on one Looper, so that state
// needs no further locking. Posted tasks may be canceled until they start.
package looper
