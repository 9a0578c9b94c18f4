package store

import (
	"context"
	"sync"

	"github.com/evidenthq/evident/internal/domain"
)

// LogsState is a read-only snapshot of the log store.
type LogsState struct {
	View      domain.View
	Logs      []domain.Log
	IsLoading bool
	Err       error
}

// LogStore owns the selected view and the materialized log set for it.
// Mutations never patch the local set: every successful create, update or
// delete triggers a full refetch, so the next successful fetch is always the
// source of truth. On fetch failure the previous logs stay visible.
type LogStore struct {
	mu      sync.Mutex
	api     LogAPI
	session *SessionStore

	view    domain.View
	logs    []domain.Log
	loading bool
	err     error

	// fetchGen tags each fetch; a response commits only while its tag is
	// still current, so a slow fetch for an abandoned view can never
	// overwrite the logs of a newer one.
	fetchGen uint64
}

// NewLogStore creates a log store starting on the today view.
func NewLogStore(client LogAPI, session *SessionStore) *LogStore {
	return &LogStore{api: client, session: session, view: domain.ViewToday}
}

// SetView switches the reporting window and refetches for it.
func (s *LogStore) SetView(ctx context.Context, v domain.View) error {
	if !v.Valid() {
		return nil
	}
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// Fetch reloads the log set for the current view. A no-op when signed out.
// On success logs are replaced wholesale; on failure the error is recorded
// and the previous logs are kept.
func (s *LogStore) Fetch(ctx context.Context) error {
	token := s.session.Token()
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.fetchGen++
	gen := s.fetchGen
	view := s.view
	s.mu.Unlock()

	logs, err := s.fetchForView(ctx, token, view)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.fetchGen {
		// A newer fetch superseded this one; its result decides the state.
		return nil
	}
	s.loading = false
	if err != nil {
		s.err = err
		return err
	}
	s.logs = logs
	return nil
}

func (s *LogStore) fetchForView(ctx context.Context, token string, view domain.View) ([]domain.Log, error) {
	switch view {
	case domain.ViewThisWeek:
		return s.api.ThisWeekLogs(ctx, token)
	case domain.ViewLastWeek:
		return s.api.LastWeekLogs(ctx, token)
	default:
		return s.api.TodayLogs(ctx, token)
	}
}

// Create validates and submits a new log, then refetches the current view.
// The source is always forced to WEB regardless of the payload.
func (s *LogStore) Create(ctx context.Context, payload domain.CreateLog) error {
	token := s.session.Token()
	if token == "" {
		return nil
	}

	payload.Source = domain.SourceWeb
	if err := payload.Validate(); err != nil {
		s.setError(err)
		return err
	}

	if _, err := s.api.CreateLog(ctx, token, payload); err != nil {
		s.setError(err)
		return err
	}
	return s.Fetch(ctx)
}

// Update submits a partial patch for a log, then refetches the current view.
func (s *LogStore) Update(ctx context.Context, id string, patch domain.UpdateLog) error {
	token := s.session.Token()
	if token == "" {
		return nil
	}

	if err := patch.Validate(); err != nil {
		s.setError(err)
		return err
	}

	if _, err := s.api.UpdateLog(ctx, token, id, patch); err != nil {
		s.setError(err)
		return err
	}
	return s.Fetch(ctx)
}

// Delete removes a log, then refetches the current view.
func (s *LogStore) Delete(ctx context.Context, id string) error {
	token := s.session.Token()
	if token == "" {
		return nil
	}

	if err := s.api.DeleteLog(ctx, token, id); err != nil {
		s.setError(err)
		return err
	}
	return s.Fetch(ctx)
}

// ClearError drops the recorded error, leaving logs and view alone.
func (s *LogStore) ClearError() {
	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()
}

// View returns the currently selected reporting window.
func (s *LogStore) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Snapshot returns a copy of the current log state.
func (s *LogStore) Snapshot() LogsState {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]domain.Log, len(s.logs))
	copy(logs, s.logs)
	return LogsState{
		View:      s.view,
		Logs:      logs,
		IsLoading: s.loading,
		Err:       s.err,
	}
}

func (s *LogStore) setError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
