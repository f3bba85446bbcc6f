// Package service hosts the composition control service.
//
// A Service owns one backend.Engine and hands out Controls, one per
// GetControls call, all sharing that engine. The Diagnostic surface is
// built lazily on first request and reused afterwards. Server exposes the
// service over framed TLV connections; NewAdminRouter exposes health,
// version and metrics over HTTP; Run ties both to a registrar for a
// standalone daemon.
//
// Listener callbacks run synchronously on the goroutine that triggered the
// notification.
package service
