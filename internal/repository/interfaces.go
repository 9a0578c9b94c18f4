package repository

import (
	"context"
	"errors"

	"github.com/evidenthq/evident/internal/domain"
)

// ErrNotFound is returned when no persisted record exists.
var ErrNotFound = errors.New("not found")

// StoredSession is the persisted authentication state: the bearer token and
// the user it belongs to, saved as a unit.
type StoredSession struct {
	Token string
	User  domain.User
}

// SessionRepo persists the single local session across process restarts.
type SessionRepo interface {
	Load(ctx context.Context) (*StoredSession, error)
	Save(ctx context.Context, s *StoredSession) error
	Clear(ctx context.Context) error
}
