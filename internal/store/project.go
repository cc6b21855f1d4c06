package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Project is one saved canvas. Data is the serialized document.
type Project struct {
	ID        string
	UserID    string
	Name      string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectInput struct {
	Name string
	Data []byte
}

// ProjectPatch lists the fields to change; nil leaves a field alone.
type ProjectPatch struct {
	Name *string
	Data []byte
}

func (s *Store) CreateProject(ctx context.Context, userID string, in ProjectInput) (string, error) {
	id := uuid.NewString()
	now := s.stamp()
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, in.Name, in.Data, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("create project: %w", err)
	}
	return id, nil
}

// GetProject returns nil, nil when no project has the id.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	p, err := scanProject(s.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, data, created_at, updated_at FROM projects WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetUserProjects lists a user's projects, most recently updated first.
func (s *Store) GetUserProjects(ctx context.Context, userID string) ([]Project, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, name, data, created_at, updated_at FROM projects
		 WHERE user_id = ? ORDER BY updated_at DESC, rowid DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject applies patch and bumps updated_at. It returns ErrNotFound
// for an unknown id.
func (s *Store) UpdateProject(ctx context.Context, id string, patch ProjectPatch) error {
	now := s.stamp()
	var res sql.Result
	var err error
	switch {
	case patch.Name != nil && patch.Data != nil:
		res, err = s.conn.ExecContext(ctx,
			`UPDATE projects SET name = ?, data = ?, updated_at = ? WHERE id = ?`, *patch.Name, patch.Data, now, id)
	case patch.Name != nil:
		res, err = s.conn.ExecContext(ctx,
			`UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`, *patch.Name, now, id)
	case patch.Data != nil:
		res, err = s.conn.ExecContext(ctx,
			`UPDATE projects SET data = ?, updated_at = ? WHERE id = ?`, patch.Data, now, id)
	default:
		res, err = s.conn.ExecContext(ctx,
			`UPDATE projects SET updated_at = ? WHERE id = ?`, now, id)
	}
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*Project, error) {
	var p Project
	var created, updated int64
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Data, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt = fromNanos(created)
	p.UpdatedAt = fromNanos(updated)
	return &p, nil
}
