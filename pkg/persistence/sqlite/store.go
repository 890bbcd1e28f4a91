package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// errNotFound is the store-internal absence signal; repositories map it
// to (nil, nil) or the typed persistence errors.
var errNotFound = errors.New("record not found")

// store is the shared document accessor behind every repository.
type store struct {
	db *sql.DB
}

func (s *store) get(ctx context.Context, kind, id string, out any) error {
	var data []byte

	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM records WHERE kind = $1 AND id = $2", kind, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errNotFound
		}

		return fmt.Errorf("failed to load %s %s: %w", kind, id, err)
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", kind, id, err)
	}

	return nil
}

func (s *store) put(ctx context.Context, kind, id, owner string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", kind, id, err)
	}

	query := `
		INSERT INTO records (kind, id, owner, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind, id) DO UPDATE SET
			owner = EXCLUDED.owner,
			data = EXCLUDED.data
	`

	_, err = s.db.ExecContext(ctx, query, kind, id, owner, data)
	if err != nil {
		return fmt.Errorf("failed to save %s %s: %w", kind, id, err)
	}

	return nil
}

func (s *store) delete(ctx context.Context, kind, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE kind = $1 AND id = $2", kind, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}

	if affected == 0 {
		return errNotFound
	}

	return nil
}

// each decodes every document of one kind. When owner is non-empty only
// that owner's records are loaded.
func (s *store) each(ctx context.Context, kind, owner string, fn func(data []byte) error) error {
	query := "SELECT data FROM records WHERE kind = $1"
	args := []any{kind}

	if owner != "" {
		query += " AND owner = $2"
		args = append(args, owner)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query %s records: %w", kind, err)
	}

	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var data []byte

		err := rows.Scan(&data)
		if err != nil {
			return fmt.Errorf("failed to scan %s record: %w", kind, err)
		}

		err = fn(data)
		if err != nil {
			return err
		}
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("error iterating %s records: %w", kind, err)
	}

	return nil
}
