// Package session keeps the authenticated identity of a browser on the
// server.  The browser only holds a signed cookie naming an opaque session
// id; the identity lives in a Store keyed by that id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/quic/internal/model"
)

// ErrNoSession is returned by Store.Get when the id is unknown or expired.
var ErrNoSession = errors.New("session not found")

// Store is the key/value abstraction behind sessions.  Implementations must
// be safe for concurrent use.
type Store interface {
	// Get returns the identity stored under id or ErrNoSession.
	Get(ctx context.Context, id string) (model.Identity, error)
	// Set stores the identity under id for ttl, replacing any previous value.
	Set(ctx context.Context, id string, data model.Identity, ttl time.Duration) error
	// Destroy removes id.  Destroying an unknown id is not an error.
	Destroy(ctx context.Context, id string) error
}
