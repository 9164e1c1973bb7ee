package db

import (
	"context"

	"github.com/dmitrijs2005/rosterkeeper/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Close() error
	Users() users.Repository
}
