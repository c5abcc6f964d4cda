package sqlite

import (
	"context"
	"database/sql"
	"errors"
)

// ExtensionStorageRepository backs the per-module key-value capability.
// Missing keys read as empty strings, matching the capability contract.
type ExtensionStorageRepository struct {
	db *sql.DB
}

func NewExtensionStorageRepository(db *sql.DB) *ExtensionStorageRepository {
	return &ExtensionStorageRepository{db: db}
}

func (r *ExtensionStorageRepository) Get(ctx context.Context, module, key string) (string, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT value FROM extension_storage WHERE module = ? AND key = ?`, module, key,
	)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *ExtensionStorageRepository) Set(ctx context.Context, module, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extension_storage (module, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (module, key) DO UPDATE SET value = excluded.value`,
		module, key, value,
	)
	return err
}
