package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type User struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
	LastLogin   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Credential is the stored password hash for an email account.
type Credential struct {
	UID   string
	Email string
	Salt  []byte
	Hash  []byte
}

// UpsertUser creates the user or refreshes its profile and last login.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	now := s.stamp()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO users (uid, email, display_name, photo_url, last_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			photo_url = excluded.photo_url,
			last_login = excluded.last_login,
			updated_at = excluded.updated_at`,
		u.UID, u.Email, u.DisplayName, u.PhotoURL, u.LastLogin.UnixNano(), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetUser returns nil, nil for an unknown uid.
func (s *Store) GetUser(ctx context.Context, uid string) (*User, error) {
	var u User
	var last, created, updated int64
	err := s.conn.QueryRowContext(ctx,
		`SELECT uid, email, display_name, photo_url, last_login, created_at, updated_at FROM users WHERE uid = ?`, uid,
	).Scan(&u.UID, &u.Email, &u.DisplayName, &u.PhotoURL, &last, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.LastLogin = fromNanos(last)
	u.CreatedAt = fromNanos(created)
	u.UpdatedAt = fromNanos(updated)
	return &u, nil
}

// UpdateDisplayName changes a user's display name.
func (s *Store) UpdateDisplayName(ctx context.Context, uid, name string) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE users SET display_name = ?, updated_at = ? WHERE uid = ?`, name, s.stamp(), uid)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update user %s: %w", uid, ErrNotFound)
	}
	return nil
}

func (s *Store) SaveCredential(ctx context.Context, c Credential) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO credentials (uid, email, salt, hash) VALUES (?, ?, ?, ?)`,
		c.UID, c.Email, c.Salt, c.Hash,
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// CredentialByEmail returns nil, nil when the email has no account.
func (s *Store) CredentialByEmail(ctx context.Context, email string) (*Credential, error) {
	var c Credential
	err := s.conn.QueryRowContext(ctx,
		`SELECT uid, email, salt, hash FROM credentials WHERE email = ?`, email,
	).Scan(&c.UID, &c.Email, &c.Salt, &c.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &c, nil
}

// SetSession remembers the signed-in user across restarts.
func (s *Store) SetSession(ctx context.Context, uid string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO session (id, uid) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET uid = excluded.uid`, uid)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Session returns the remembered uid, or "".
func (s *Store) Session(ctx context.Context) (string, error) {
	var uid string
	err := s.conn.QueryRowContext(ctx, `SELECT uid FROM session WHERE id = 1`).Scan(&uid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return uid, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
