// Package db wires repositories to their storage backend and owns schema
// migrations.
package db

import (
	"context"
	"database/sql"

	"github.com/streamly/authd/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
}
