// Copyright (c) 2026 Punchline. All rights reserved.

// PostgreSQL implementation of the joke repository.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package joke

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/punchline-app/punchline/internal/platform/apperr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the joke [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListRecent returns the newest jokes, capped at limit.
func (repository *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]ListItem, error) {
	const query = `
		SELECT id, name
		FROM core.joke
		ORDER BY createdat DESC
		LIMIT $1`

	rows, err := repository.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_joke_repo_list_recent_failed: %w", err)
	}
	defer rows.Close()

	items := make([]ListItem, 0, limit)
	for rows.Next() {
		var item ListItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("postgres_joke_repo_list_recent_scan_failed: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_joke_repo_list_recent_rows_failed: %w", err)
	}

	return items, nil
}

// FindByID retrieves a single joke by its primary key.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Joke, error) {
	const query = `
		SELECT id, name, content, ownerid, createdat
		FROM core.joke
		WHERE id = $1`

	record := &Joke{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Name,
		&record.Content,
		&record.OwnerID,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Joke")
		}
		return nil, fmt.Errorf("postgres_joke_repo_find_by_id_failed: %w", err)
	}

	return record, nil
}

// Create persists a new joke record into the core.joke table.
func (repository *PostgresRepository) Create(ctx context.Context, record *Joke) error {
	const query = `
		INSERT INTO core.joke (id, name, content, ownerid, createdat)
		VALUES ($1, $2, $3, $4, $5)`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		record.ID,
		record.Name,
		record.Content,
		record.OwnerID,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_joke_repo_create_failed: %w", err)
	}

	return nil
}

// Delete removes a joke row. A zero-row result maps to apperr.NotFound so a
// row that vanished between a fetch and this call surfaces as the canonical
// NotFound outcome.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM core.joke WHERE id = $1`

	commandTag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_joke_repo_delete_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Joke")
	}

	return nil
}
