package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// ListAll returns stored entries in collection order.
func (r *EntryRepo) ListAll(ctx context.Context) ([]EntryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, position, name, types, region, image, hp, attack, defense, speed, total
		FROM entries
		ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("entry list: %w", err)
	}
	defer rows.Close()

	var out []EntryRow
	for rows.Next() {
		var e EntryRow
		var typesJSON string
		if err := rows.Scan(&e.ID, &e.Position, &e.Name, &typesJSON, &e.Region, &e.Image, &e.HP, &e.Attack, &e.Defense, &e.Speed, &e.Total); err != nil {
			return nil, fmt.Errorf("entry scan: %w", err)
		}
		if err := json.Unmarshal([]byte(typesJSON), &e.Types); err != nil {
			return nil, fmt.Errorf("entry %d types: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("entry rows: %w", err)
	}
	return out, nil
}

func (r *EntryRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("entry count: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the stored collection for rows in one transaction; a
// failure leaves the previous collection in place.
func (r *EntryRepo) ReplaceAll(ctx context.Context, rows []EntryRow) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
			return fmt.Errorf("entry clear: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO entries (id, position, name, types, region, image, hp, attack, defense, speed, total)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("entry prepare: %w", err)
		}
		defer stmt.Close()

		for i, e := range rows {
			typesJSON, err := json.Marshal(e.Types)
			if err != nil {
				return fmt.Errorf("marshal types: %w", err)
			}
			if _, err := stmt.ExecContext(ctx, e.ID, i, e.Name, string(typesJSON), e.Region, e.Image, e.HP, e.Attack, e.Defense, e.Speed, e.Total); err != nil {
				return fmt.Errorf("entry insert %d: %w", e.ID, err)
			}
		}
		return nil
	})
}
