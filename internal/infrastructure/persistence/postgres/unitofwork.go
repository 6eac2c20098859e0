package postgres

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/campus-hub/score-encoding-hub/internal/domain/responsible"
)

// UnitOfWork scopes responsibility writes to one pgx transaction. The
// assignment service moves a teaching unit between two aggregates; wrapping
// both Save calls in a transaction keeps the one-responsible-per-unit
// invariant visible at every commit point.
type UnitOfWork struct {
	tx   pgx.Tx
	repo *ResponsibleRepository

	mu   sync.Mutex
	done bool
}

// Responsibles returns the repository bound to this transaction.
func (u *UnitOfWork) Responsibles() responsible.Repository {
	return u.repo
}

// Commit applies every write of the transaction.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.done {
		return errors.New("postgres: unit of work already finished")
	}
	u.done = true
	return u.tx.Commit(ctx)
}

// Rollback discards the transaction. Safe to call after Commit.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback(ctx)
}

// UnitOfWorkFactory begins pgx-backed units of work.
type UnitOfWorkFactory struct {
	conn *Connection
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory.
func NewUnitOfWorkFactory(conn *Connection) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{conn: conn}
}

// Begin starts a transaction and returns the unit of work bound to it.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (responsible.UnitOfWork, error) {
	tx, err := f.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return &UnitOfWork{
		tx:   tx,
		repo: newResponsibleRepositoryWithQuerier(tx),
	}, nil
}
