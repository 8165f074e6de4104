package unitofwork

import (
	"context"

	"wikivoice-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	QueryRepository() contract.QueryRepository
}
