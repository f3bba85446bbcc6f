// Package client is the caller-side library for the composition control
// service.
//
// Connect resolves the service by name, dials it and acquires a control
// surface. The returned *Session is passed to flat dispatch functions such
// as DisplaySetOverscan. Every dispatch function accepts a nil, closed or
// broken session and answers hwcs.StatusBadValue without touching the
// transport. A transport failure during a call answers
// hwcs.StatusDeadObject once and leaves the session broken.
//
// Calls on one session are serialised; a session may be shared between
// goroutines.
package client
