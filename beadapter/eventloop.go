package beadapter

import "time"

// EventLoop is the single cooperative dispatcher every adapter is driven
// by. It is a collaborator, not something this package implements: the
// core only ever arms/clears events and schedules timers through this
// interface, never touches a socket or a timer wheel directly (the
// reactor package ships one concrete implementation). Passing it in
// explicitly, rather than reaching for an ambient global, is the "pass
// the registry and event loop as explicit context" shape the original
// source's design notes call for.
type EventLoop interface {
	// ArmRead requests fn be called when fd becomes readable. Calling
	// ArmRead again before fn runs replaces the pending arm.
	ArmRead(fd int, fn func())

	// ArmWrite requests fn be called when fd becomes writable.
	ArmWrite(fd int, fn func())

	// ClearWrite cancels a pending ArmWrite for fd, if any.
	ClearWrite(fd int)

	// ScheduleAfter runs fn once, after delay has elapsed, on the loop's
	// own goroutine. It returns a Timer the caller may Cancel.
	ScheduleAfter(delay time.Duration, fn func()) Timer

	// Schedule runs fn on the loop's own goroutine as soon as it next
	// turns, preserving the single-threaded, non-reentrant execution
	// model even for "run this immediately" work (e.g. dispatching a
	// just-decoded message from inside a read handler).
	Schedule(fn func())
}

// Timer is a handle to a pending ScheduleAfter call.
type Timer interface {
	// Cancel prevents the timer's function from running, if it has not
	// already started. Safe to call more than once.
	Cancel()
}
