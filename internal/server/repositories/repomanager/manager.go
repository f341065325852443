// Package repomanager hands out repositories bound to a DBTX, so services
// can run the same repository code on the pool or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/shelfwise/auth-service/internal/dbx"
	"github.com/shelfwise/auth-service/internal/server/repositories/refreshtokens"
	"github.com/shelfwise/auth-service/internal/server/repositories/users"
)

// RepositoryManager is the factory for all persistent repositories.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
