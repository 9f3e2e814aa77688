// Package transport carries sync rounds to the server. The core only needs
// a discrete success/failure signal; the concrete implementation speaks
// JSON over HTTP.
package transport

import (
	"context"

	"github.com/dberzins/budgetsync/internal/protocol"
)

// Client is the remote endpoint as the sync engine sees it.
type Client interface {
	// Sync performs one merge round. Failures wrap common.ErrUnavailable
	// (could not reach the server) or common.ErrRejected (server answered
	// with a non-success status); the sync engine treats both as a failed
	// round and leaves local state untouched.
	Sync(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

	// Ping probes reachability for the online watcher.
	Ping(ctx context.Context) error

	// RegisterDevice obtains an access token for this device id.
	RegisterDevice(ctx context.Context, deviceID string) (string, error)

	// SetToken installs the token attached to subsequent requests.
	SetToken(token string)
}
