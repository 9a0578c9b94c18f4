package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evidenthq/evident/internal/api"
	"github.com/evidenthq/evident/internal/db"
	"github.com/evidenthq/evident/internal/domain"
	"github.com/evidenthq/evident/internal/export"
	"github.com/evidenthq/evident/internal/repository"
	"github.com/evidenthq/evident/internal/store"
)

// fakeService is an in-memory stand-in for the Evident HTTP service.
// Handlers mutate its state under mu; tests seed and inspect it directly.
type fakeService struct {
	mu sync.Mutex

	logs       map[domain.View][]domain.Log
	nextID     int
	allowed    bool
	denyReason string
	summary    string
	pdf        []byte
	checkout   string
}

func newFakeService() *fakeService {
	return &fakeService{
		logs:     make(map[domain.View][]domain.Log),
		allowed:  true,
		summary:  "You worked on things.",
		pdf:      []byte("%PDF-1.4 fake"),
		checkout: "https://pay.example.com/cs_123",
	}
}

func (f *fakeService) seed(view domain.View, logs ...domain.Log) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[view] = append(f.logs[view], logs...)
}

func (f *fakeService) deny(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allowed = false
	f.denyReason = reason
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	user := domain.User{ID: "u1", Email: "dev@example.com", SubscriptionStatus: "trial"}

	auth := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"accessToken": "tok-cli", "user": user})
	}
	mux.HandleFunc("/auth/login", auth)
	mux.HandleFunc("/auth/register", auth)

	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, user)
	})

	mux.HandleFunc("/users/can-export", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, map[string]any{"allowed": f.allowed, "reason": f.denyReason})
	})

	listFor := func(view domain.View) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			logs := f.logs[view]
			if logs == nil {
				logs = []domain.Log{}
			}
			writeJSON(w, logs)
		}
	}
	mux.HandleFunc("/logs/today", listFor(domain.ViewToday))
	mux.HandleFunc("/logs/this-week", listFor(domain.ViewThisWeek))
	mux.HandleFunc("/logs/last-week", listFor(domain.ViewLastWeek))

	mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		var payload domain.CreateLog
		_ = json.NewDecoder(r.Body).Decode(&payload)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		log := domain.Log{
			ID:           fmt.Sprintf("log-%d", f.nextID),
			Date:         payload.Date,
			StartTime:    payload.StartTime,
			EndTime:      payload.EndTime,
			ActivityType: payload.ActivityType,
			Description:  payload.Description,
			Reference:    payload.Reference,
			Source:       payload.Source,
			CreatedAt:    time.Now(),
		}
		for _, view := range domain.Views {
			f.logs[view] = append(f.logs[view], log)
		}
		writeJSON(w, log)
	})

	mux.HandleFunc("/logs/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/logs/")

		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodDelete:
			for view := range f.logs {
				kept := f.logs[view][:0]
				for _, l := range f.logs[view] {
					if l.ID != id {
						kept = append(kept, l)
					}
				}
				f.logs[view] = kept
			}
			writeJSON(w, map[string]bool{"deleted": true})
		case http.MethodPatch:
			var patch domain.UpdateLog
			_ = json.NewDecoder(r.Body).Decode(&patch)
			var updated domain.Log
			for view := range f.logs {
				for i, l := range f.logs[view] {
					if l.ID != id {
						continue
					}
					if patch.Description != nil {
						l.Description = *patch.Description
					}
					if patch.Reference != nil {
						l.Reference = *patch.Reference
					}
					if patch.StartTime != nil {
						l.StartTime = *patch.StartTime
					}
					if patch.EndTime != nil {
						l.EndTime = *patch.EndTime
					}
					if patch.ActivityType != nil {
						l.ActivityType = *patch.ActivityType
					}
					f.logs[view][i] = l
					updated = l
				}
			}
			writeJSON(w, updated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/exports/generate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StartDate string `json:"startDate"`
			EndDate   string `json:"endDate"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, map[string]any{
			"id": "exp-1", "format": "text", "textContent": f.summary,
			"dateRange": map[string]string{"start": req.StartDate, "end": req.EndDate},
			"logCount":  len(f.logs[domain.ViewThisWeek]),
		})
	})

	mux.HandleFunc("/exports/pdf", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(f.pdf)
	})

	mux.HandleFunc("/exports/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{})
	})

	mux.HandleFunc("/subscriptions/checkout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, map[string]string{"sessionId": "cs_123", "url": f.checkout})
	})

	mux.HandleFunc("/subscriptions/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"subscriptionStatus": "trial", "trialExportUsed": false, "exportCount": 0})
	})

	return mux
}

// testApp wires a full App against a fakeService, with the session store
// backed by in-memory SQLite and PDF downloads going to t.TempDir().
func testApp(t *testing.T) (*App, *fakeService) {
	t.Helper()

	svc := newFakeService()
	server := httptest.NewServer(svc.handler())
	t.Cleanup(server.Close)

	client := api.NewClient(api.Config{BaseURL: server.URL, Timeout: 2 * time.Second})

	conn, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	downloadDir := t.TempDir()
	session := store.NewSessionStore(client, repository.NewSQLiteSessionRepo(conn))
	app := &App{
		API:           client,
		Session:       session,
		Logs:          store.NewLogStore(client, session),
		Export:        export.NewWorkflow(client, session, downloadDir),
		DownloadDir:   downloadDir,
		IsInteractive: func() bool { return false },
	}
	return app, svc
}

// signedInApp is testApp plus a completed sign-in.
func signedInApp(t *testing.T) (*App, *fakeService) {
	t.Helper()
	app, svc := testApp(t)
	require.NoError(t, app.Session.Login(context.Background(), "dev@example.com", "hunter2-long"))
	return app, svc
}

// aLog builds a log inside this week for dashboard tests.
func aLog(id, desc string, hour int) domain.Log {
	day := time.Now()
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
	return domain.Log{
		ID:           id,
		Date:         start.Format(domain.DateLayout),
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		ActivityType: domain.ActivityWork,
		Description:  desc,
		Source:       domain.SourceWeb,
		CreatedAt:    start,
	}
}
