package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/evidenthq/evident/internal/db"
	"github.com/evidenthq/evident/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
// The session is a single row; saving replaces it wholesale.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Load(ctx context.Context) (*StoredSession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT token, user_json FROM session WHERE id = 1`)

	var token, userJSON string
	if err := row.Scan(&token, &userJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("decoding stored user: %w", err)
	}
	return &StoredSession{Token: token, User: user}, nil
}

func (r *SQLiteSessionRepo) Save(ctx context.Context, s *StoredSession) error {
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	query := `INSERT OR REPLACE INTO session (id, token, user_json, updated_at) VALUES (1, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, s.Token, string(userJSON), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
