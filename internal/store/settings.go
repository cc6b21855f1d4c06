package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Settings are per-user editor defaults.
type Settings struct {
	ShowGrid     bool    `json:"showGrid"`
	PenColor     string  `json:"penColor,omitempty"`
	PenWidth     float64 `json:"penWidth,omitempty"`
	FontFamily   string  `json:"fontFamily,omitempty"`
	CanvasPreset string  `json:"canvasPreset,omitempty"`
}

// GetSettings returns nil, nil when the user never saved settings.
func (s *Store) GetSettings(ctx context.Context, uid string) (*Settings, error) {
	var raw string
	err := s.conn.QueryRowContext(ctx, `SELECT data_json FROM settings WHERE uid = ?`, uid).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	var st Settings
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &st, nil
}

func (s *Store) SaveSettings(ctx context.Context, uid string, st Settings) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO settings (uid, data_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET data_json = excluded.data_json, updated_at = excluded.updated_at`,
		uid, string(data), s.stamp(),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
