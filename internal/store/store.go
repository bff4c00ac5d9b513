// Package store bundles the users and logs repositories of one backend behind
// a single handle that can be pinged, reset and closed.
package store

import (
	"context"

	"github.com/dmitrijs2005/datafaker/internal/repositories/logs"
	"github.com/dmitrijs2005/datafaker/internal/repositories/users"
)

// Store is an open connection to one backend.
//
// Reset removes every log and then every user.
type Store interface {
	Users() users.Repository
	Logs() logs.Repository
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
