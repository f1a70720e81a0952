// Package session owns the authentication token and its persistence.
// The Store is the single writer of session state; every other component
// reads it through IsAuthenticated/Token.
package session

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/pictofold/pictofold-cli/internal/client/repositories/state"
	"github.com/pictofold/pictofold-cli/internal/common"
	"github.com/pictofold/pictofold-cli/internal/dbx"
	"github.com/pictofold/pictofold-cli/internal/logging"
)

// Store holds the session token in memory and mirrors it into the local
// state database so a session survives restarts.
//
// Persistence failures are swallowed: a failed read means "no token"
// (fail safe to logged-out), a failed write degrades to an in-memory-only
// session. The token is never validated locally; the first authenticated
// request is the validator and may come back ErrUnauthorized.
type Store struct {
	mu    sync.RWMutex
	db    *sql.DB
	token string
	log   logging.Logger
}

func NewStore(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, log: log}
}

func (s *Store) stateRepo(db dbx.DBTX) state.Repository {
	return state.NewSQLiteRepository(db)
}

// Bootstrap loads a previously persisted token into memory. Call once at
// process start, before anything needs IsAuthenticated.
func (s *Store) Bootstrap(ctx context.Context) {
	value, err := s.stateRepo(s.db).Get(ctx, common.SessionTokenKey)
	if err != nil {
		s.log.Warn(ctx, "could not read persisted session, starting logged out", "error", err)
		return
	}

	s.mu.Lock()
	s.token = string(value)
	s.mu.Unlock()
}

// Login stores the token in memory and persists it. The in-memory session
// is set even when the persistence write fails.
func (s *Store) Login(ctx context.Context, token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.stateRepo(tx)
		if err := repo.Set(ctx, common.SessionTokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.SessionSavedAtKey, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
	if err != nil {
		s.log.Warn(ctx, "could not persist session token, session will not survive restart", "error", err)
	}
}

// Logout clears the in-memory and persisted token. Safe to call when
// already logged out.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.stateRepo(tx)
		if err := repo.Delete(ctx, common.SessionTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.SessionSavedAtKey)
	})
	if err != nil {
		s.log.Warn(ctx, "could not clear persisted session token", "error", err)
	}
}

// IsAuthenticated reports whether a non-empty token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current token, or "" when logged out.
// Implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
