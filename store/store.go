package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ByLCY/sheetpress/worksheet"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a worksheet type does not exist or belongs to another user.
var ErrNotFound = errors.New("store: worksheet type not found")

// WorksheetType is a persisted custom worksheet type owned by one user.
type WorksheetType struct {
	ID            string                  `json:"id"`
	UserID        string                  `json:"user_id"`
	Definition    worksheet.Definition    `json:"definition"`
	DefaultConfig worksheet.DefaultConfig `json:"default_config"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// NewPostgresPool creates and validates a PostgreSQL connection pool.
func NewPostgresPool(ctx context.Context, url string, maxConns int32, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Int32("max_conns", poolCfg.MaxConns).
		Msg("PostgreSQL connected")
	return pool, nil
}

// Repository stores custom worksheet types in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the table if it does not exist. It is safe to call on every start.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const selectColumns = `id, user_id, name, description, estimated_time, include_passages,
	passages_count, question_types, default_config, created_at, updated_at`

// List returns the user's worksheet types, newest first.
func (r *Repository) List(ctx context.Context, userID string) ([]WorksheetType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM custom_worksheet_types
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []WorksheetType
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Get returns one worksheet type owned by userID.
func (r *Repository) Get(ctx context.Context, userID, id string) (WorksheetType, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM custom_worksheet_types WHERE id = $1 AND user_id = $2`, id, userID)
	t, err := scanType(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorksheetType{}, ErrNotFound
	}
	return t, err
}

// Create validates and inserts def for userID.
func (r *Repository) Create(ctx context.Context, userID string, def worksheet.Definition) (WorksheetType, error) {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return WorksheetType{}, err
	}
	qt, dc, err := encode(def)
	if err != nil {
		return WorksheetType{}, err
	}
	t := WorksheetType{ID: uuid.New().String(), UserID: userID, Definition: def, DefaultConfig: def.DefaultConfig()}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO custom_worksheet_types
		   (id, user_id, name, description, estimated_time, include_passages, passages_count, question_types, default_config)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		t.ID, userID, def.Name, def.Description, def.EstimatedMinutes, def.IncludePassages, def.PassageCount, qt, dc,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return WorksheetType{}, err
	}
	return t, nil
}

// Update replaces the definition of an owned worksheet type.
func (r *Repository) Update(ctx context.Context, userID, id string, def worksheet.Definition) (WorksheetType, error) {
	def.Normalize()
	if err := def.Validate(); err != nil {
		return WorksheetType{}, err
	}
	qt, dc, err := encode(def)
	if err != nil {
		return WorksheetType{}, err
	}
	t := WorksheetType{ID: id, UserID: userID, Definition: def, DefaultConfig: def.DefaultConfig()}
	err = r.pool.QueryRow(ctx,
		`UPDATE custom_worksheet_types
		 SET name = $3, description = $4, estimated_time = $5, include_passages = $6,
		     passages_count = $7, question_types = $8, default_config = $9, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING created_at, updated_at`,
		id, userID, def.Name, def.Description, def.EstimatedMinutes, def.IncludePassages, def.PassageCount, qt, dc,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorksheetType{}, ErrNotFound
	}
	if err != nil {
		return WorksheetType{}, err
	}
	return t, nil
}

// Delete removes an owned worksheet type.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM custom_worksheet_types WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func encode(def worksheet.Definition) ([]byte, []byte, error) {
	qt, err := json.Marshal(def.QuestionTypes)
	if err != nil {
		return nil, nil, fmt.Errorf("encode question types: %w", err)
	}
	dc, err := json.Marshal(def.DefaultConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("encode default config: %w", err)
	}
	return qt, dc, nil
}

func scanType(row pgx.Row) (WorksheetType, error) {
	var (
		t      WorksheetType
		id     uuid.UUID
		qt, dc []byte
	)
	err := row.Scan(&id, &t.UserID, &t.Definition.Name, &t.Definition.Description,
		&t.Definition.EstimatedMinutes, &t.Definition.IncludePassages, &t.Definition.PassageCount,
		&qt, &dc, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return WorksheetType{}, err
	}
	t.ID = id.String()
	if err := json.Unmarshal(qt, &t.Definition.QuestionTypes); err != nil {
		return WorksheetType{}, fmt.Errorf("decode question types: %w", err)
	}
	if err := json.Unmarshal(dc, &t.DefaultConfig); err != nil {
		return WorksheetType{}, fmt.Errorf("decode default config: %w", err)
	}
	return t, nil
}
