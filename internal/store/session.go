package store

import (
	"context"
	"errors"
	"sync"

	"github.com/evidenthq/evident/internal/domain"
	"github.com/evidenthq/evident/internal/repository"
)

// SessionState is a read-only snapshot of the session store.
// User is non-nil exactly when Token is non-empty.
type SessionState struct {
	Token     string
	User      *domain.User
	IsLoading bool
	Err       error
}

// Authenticated reports whether a signed-in session is present.
func (s SessionState) Authenticated() bool { return s.Token != "" }

// SessionStore owns the authentication token and user identity. The session
// is persisted across restarts; loading and error state are transient and
// start zeroed on every process start.
//
// Concurrent Login/Register calls are not deduplicated; the last response to
// resolve wins, which is acceptable for a single-user client.
type SessionStore struct {
	mu   sync.Mutex
	api  AuthAPI
	repo repository.SessionRepo

	token   string
	user    *domain.User
	loading bool
	err     error
}

// NewSessionStore creates a signed-out session store.
func NewSessionStore(client AuthAPI, repo repository.SessionRepo) *SessionStore {
	return &SessionStore{api: client, repo: repo}
}

// Restore loads a previously persisted session, if any. A missing session
// leaves the store signed out; it is not an error.
func (s *SessionStore) Restore(ctx context.Context) error {
	stored, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = stored.Token
	user := stored.User
	s.user = &user
	return nil
}

// Login authenticates with the service. The error is both recorded in the
// store and returned, so callers can branch (for example, stay on the auth
// screen) without re-reading state.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	return s.authenticate(func() (string, domain.User, error) {
		res, err := s.api.Login(ctx, email, password)
		if err != nil {
			return "", domain.User{}, err
		}
		return res.AccessToken, res.User, nil
	}, ctx)
}

// Register creates an account and signs in. Error semantics match Login.
func (s *SessionStore) Register(ctx context.Context, email, password string) error {
	return s.authenticate(func() (string, domain.User, error) {
		res, err := s.api.Register(ctx, email, password)
		if err != nil {
			return "", domain.User{}, err
		}
		return res.AccessToken, res.User, nil
	}, ctx)
}

func (s *SessionStore) authenticate(call func() (string, domain.User, error), ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	token, user, err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		return err
	}

	s.token = token
	s.user = &user

	// Failure to persist keeps the in-memory session but is surfaced so the
	// user knows the sign-in will not survive a restart.
	if saveErr := s.repo.Save(ctx, &repository.StoredSession{Token: token, User: user}); saveErr != nil {
		s.err = saveErr
		return saveErr
	}
	return nil
}

// RefreshUser replaces the stored user wholesale from the me endpoint.
// No-op when signed out.
func (s *SessionStore) RefreshUser(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return nil
	}

	user, err := s.api.Me(ctx, token)
	if err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A logout that raced the refresh wins; do not resurrect the session.
	if s.token == "" {
		return nil
	}
	s.user = user
	return s.repo.Save(ctx, &repository.StoredSession{Token: s.token, User: *user})
}

// Logout clears the session synchronously. No network call is made and
// calling it signed out is a no-op.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.err = nil
	s.mu.Unlock()

	_ = s.repo.Clear(ctx)
}

// ClearError drops the recorded error, leaving the rest of the state alone.
func (s *SessionStore) ClearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

// Token returns the current bearer token, or "" when signed out.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Snapshot returns a copy of the current session state.
func (s *SessionStore) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		Token:     s.token,
		IsLoading: s.loading,
		Err:       s.err,
	}
	if s.user != nil {
		user := *s.user
		state.User = &user
	}
	return state
}
