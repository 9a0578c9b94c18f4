// Package store holds the client's two long-lived state containers: the
// authentication session and the log collection for the selected view.
// Stores are explicit, injectable values with mutex-guarded snapshots, and
// all server state lives in them — nothing else caches responses.
package store

import (
	"context"

	"github.com/evidenthq/evident/internal/api"
	"github.com/evidenthq/evident/internal/domain"
)

// AuthAPI is the slice of the service client the session store depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Me(ctx context.Context, token string) (*domain.User, error)
}

// LogAPI is the slice of the service client the log store depends on.
type LogAPI interface {
	TodayLogs(ctx context.Context, token string) ([]domain.Log, error)
	ThisWeekLogs(ctx context.Context, token string) ([]domain.Log, error)
	LastWeekLogs(ctx context.Context, token string) ([]domain.Log, error)
	CreateLog(ctx context.Context, token string, payload domain.CreateLog) (*domain.Log, error)
	UpdateLog(ctx context.Context, token, id string, patch domain.UpdateLog) (*domain.Log, error)
	DeleteLog(ctx context.Context, token, id string) error
}

var (
	_ AuthAPI = (*api.Client)(nil)
	_ LogAPI  = (*api.Client)(nil)
)
