package store

import (
	"context"
	"sync"
	"testing"

	"github.com/evidenthq/evident/internal/api"
	"github.com/evidenthq/evident/internal/db"
	"github.com/evidenthq/evident/internal/domain"
	"github.com/evidenthq/evident/internal/repository"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements AuthAPI and LogAPI in memory, recording calls and
// optionally blocking individual fetches via gates.
type fakeAPI struct {
	mu sync.Mutex

	authErr  error
	authResp *api.AuthResponse

	logsByView map[domain.View][]domain.Log
	fetchErr   error
	createErr  error
	updateErr  error
	deleteErr  error

	// gates block the matching fetch until released, for race tests.
	gates map[domain.View]chan struct{}

	calls   []string
	nextID  int
	created []domain.CreateLog
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		logsByView: make(map[domain.View][]domain.Log),
		gates:      make(map[domain.View]chan struct{}),
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) callCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	f.record("login")
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.authResp, nil
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	f.record("register")
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.authResp, nil
}

func (f *fakeAPI) Me(ctx context.Context, token string) (*domain.User, error) {
	f.record("me")
	if f.authErr != nil {
		return nil, f.authErr
	}
	user := f.authResp.User
	return &user, nil
}

func (f *fakeAPI) fetch(view domain.View) ([]domain.Log, error) {
	f.mu.Lock()
	gate := f.gates[view]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logsByView[view], nil
}

func (f *fakeAPI) TodayLogs(ctx context.Context, token string) ([]domain.Log, error) {
	f.record("today")
	return f.fetch(domain.ViewToday)
}

func (f *fakeAPI) ThisWeekLogs(ctx context.Context, token string) ([]domain.Log, error) {
	f.record("this-week")
	return f.fetch(domain.ViewThisWeek)
}

func (f *fakeAPI) LastWeekLogs(ctx context.Context, token string) ([]domain.Log, error) {
	f.record("last-week")
	return f.fetch(domain.ViewLastWeek)
}

func (f *fakeAPI) CreateLog(ctx context.Context, token string, payload domain.CreateLog) (*domain.Log, error) {
	f.record("create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.created = append(f.created, payload)
	log := domain.Log{
		ID:           payload.Date + "-created",
		Date:         payload.Date,
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		ActivityType: payload.ActivityType,
		Description:  payload.Description,
		Reference:    payload.Reference,
		Source:       payload.Source,
	}
	f.logsByView[domain.ViewToday] = append(f.logsByView[domain.ViewToday], log)
	return &log, nil
}

func (f *fakeAPI) UpdateLog(ctx context.Context, token, id string, patch domain.UpdateLog) (*domain.Log, error) {
	f.record("update")
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for view, logs := range f.logsByView {
		for i := range logs {
			if logs[i].ID != id {
				continue
			}
			if patch.Description != nil {
				logs[i].Description = *patch.Description
			}
			if patch.Reference != nil {
				logs[i].Reference = *patch.Reference
			}
			f.logsByView[view] = logs
			out := logs[i]
			return &out, nil
		}
	}
	return nil, &api.RequestError{StatusCode: 404, Message: "Log not found"}
}

func (f *fakeAPI) DeleteLog(ctx context.Context, token, id string) error {
	f.record("delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for view, logs := range f.logsByView {
		kept := logs[:0]
		for _, l := range logs {
			if l.ID != id {
				kept = append(kept, l)
			}
		}
		f.logsByView[view] = kept
	}
	return nil
}

func newSessionRepo(t *testing.T) repository.SessionRepo {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return repository.NewSQLiteSessionRepo(database)
}

func signedInSession(t *testing.T, f *fakeAPI) *SessionStore {
	t.Helper()
	f.authResp = &api.AuthResponse{
		AccessToken: "tok-test",
		User:        domain.User{ID: "u1", Email: "ada@example.com", SubscriptionStatus: "TRIAL"},
	}
	s := NewSessionStore(f, newSessionRepo(t))
	require.NoError(t, s.Login(context.Background(), "ada@example.com", "pw"))
	return s
}
