// Package guildstore persists guild entities and their keys in SQLite.
package guildstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"baneslab/guildkeys/internal/database"
	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/util"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Repository defines the persistence interface for guild entities.
type Repository interface {
	keys.ExistingKeysProvider

	KeysByID(ctx context.Context, t keys.EntityType) (map[string]string, error)
	List(ctx context.Context, t keys.EntityType) ([]domain.GuildEntity, error)
	Get(ctx context.Context, t keys.EntityType, id string) (*domain.GuildEntity, error)
	GetByKey(ctx context.Context, t keys.EntityType, key string) (*domain.GuildEntity, error)
	Save(ctx context.Context, entity *domain.GuildEntity) error
	SaveAll(ctx context.Context, entities []domain.GuildEntity) error
	Delete(ctx context.Context, t keys.EntityType, id string) error
	DeleteExcept(ctx context.Context, t keys.EntityType, keepIDs []string) (int64, error)
	Close() error
}

// Compile-time check that SQLiteRepository satisfies Repository.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the guild store at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("guildstore: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("guildstore: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("guildstore: migration failed: %w", err)
	}
	return nil
}

func lookup(t keys.EntityType) (table, error) {
	tbl, ok := tables[t]
	if !ok {
		return table{}, &keys.UnsupportedTypeError{Type: string(t)}
	}
	return tbl, nil
}

// ListExistingKeys returns every stored key of type t.
func (r *SQLiteRepository) ListExistingKeys(ctx context.Context, t keys.EntityType) ([]string, error) {
	tbl, err := lookup(t)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s`, tbl.keyCol, tbl.name))
	if err != nil {
		return nil, fmt.Errorf("guildstore: query failed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("guildstore: scan failed: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// KeysByID returns the stored key of every entity of type t, indexed by
// entity ID.
func (r *SQLiteRepository) KeysByID(ctx context.Context, t keys.EntityType) (map[string]string, error) {
	tbl, err := lookup(t)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s, %s FROM %s`, tbl.idCol, tbl.keyCol, tbl.name))
	if err != nil {
		return nil, fmt.Errorf("guildstore: query failed: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, k string
		if err := rows.Scan(&id, &k); err != nil {
			return nil, fmt.Errorf("guildstore: scan failed: %w", err)
		}
		out[id] = k
	}
	return out, rows.Err()
}

// List returns all entities of type t ordered by key.
func (r *SQLiteRepository) List(ctx context.Context, t keys.EntityType) ([]domain.GuildEntity, error) {
	tbl, err := lookup(t)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, selectSQL(tbl)+fmt.Sprintf(` ORDER BY %s`, tbl.keyCol))
	if err != nil {
		return nil, fmt.Errorf("guildstore: query failed: %w", err)
	}
	defer rows.Close()

	var out []domain.GuildEntity
	for rows.Next() {
		e, err := scanEntity(rows, t, tbl)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Get returns the entity of type t with the given ID, or
// domain.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, t keys.EntityType, id string) (*domain.GuildEntity, error) {
	return r.getBy(ctx, t, func(tbl table) string { return tbl.idCol }, id)
}

// GetByKey returns the entity of type t holding key, or
// domain.ErrNotFound.
func (r *SQLiteRepository) GetByKey(ctx context.Context, t keys.EntityType, key string) (*domain.GuildEntity, error) {
	return r.getBy(ctx, t, func(tbl table) string { return tbl.keyCol }, key)
}

func (r *SQLiteRepository) getBy(ctx context.Context, t keys.EntityType, col func(table) string, value string) (*domain.GuildEntity, error) {
	tbl, err := lookup(t)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, selectSQL(tbl)+fmt.Sprintf(` WHERE %s = ?`, col(tbl)), value)
	e, err := scanEntity(row, t, tbl)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guildstore: %s %q: %w", t, value, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Save inserts entity or updates the row with the same ID. The key must
// be well formed for the entity's type. A key already held by another
// entity of the same type yields domain.ErrConflict.
func (r *SQLiteRepository) Save(ctx context.Context, entity *domain.GuildEntity) error {
	return upsert(ctx, r.db, entity)
}

// SaveAll saves every entity in a single transaction. Either all rows
// are written or none are.
func (r *SQLiteRepository) SaveAll(ctx context.Context, entities []domain.GuildEntity) error {
	if len(entities) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("guildstore: begin failed: %w", err)
	}
	defer tx.Rollback()

	for i := range entities {
		if err := upsert(ctx, tx, &entities[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("guildstore: commit failed: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, entity *domain.GuildEntity) error {
	tbl, err := lookup(entity.Type)
	if err != nil {
		return err
	}
	if entity.ID == "" {
		return fmt.Errorf("guildstore: %s has no ID", entity.Type)
	}
	if err := util.ValidateKey(string(entity.Type), entity.Key); err != nil {
		return fmt.Errorf("guildstore: %w", err)
	}

	if entity.UpdatedAt.IsZero() {
		entity.UpdatedAt = time.Now().UTC()
	}

	cols := append([]string{tbl.idCol, tbl.keyCol, tbl.nameCol}, tbl.extra...)
	cols = append(cols, "updated_at")

	args := []any{entity.ID, entity.Key, entity.Name}
	args = append(args, tbl.values(entity)...)
	args = append(args, entity.UpdatedAt.Format(time.RFC3339Nano))

	updates := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s`,
		tbl.name,
		strings.Join(cols, ", "),
		placeholders(len(cols)),
		tbl.idCol,
		strings.Join(updates, ", "),
	)

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("guildstore: %s key %q is already taken: %w", entity.Type, entity.Key, domain.ErrConflict)
		}
		return fmt.Errorf("guildstore: upsert failed: %w", err)
	}
	return nil
}

// Delete removes the entity of type t with the given ID. It returns
// domain.ErrNotFound when no such entity is stored.
func (r *SQLiteRepository) Delete(ctx context.Context, t keys.EntityType, id string) error {
	tbl, err := lookup(t)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, tbl.name, tbl.idCol), id)
	if err != nil {
		return fmt.Errorf("guildstore: delete failed: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("guildstore: delete failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("guildstore: %s %q: %w", t, id, domain.ErrNotFound)
	}
	return nil
}

// DeleteExcept removes every entity of type t whose ID is not in keepIDs
// and reports how many rows were removed. An empty keepIDs removes all
// entities of the type.
func (r *SQLiteRepository) DeleteExcept(ctx context.Context, t keys.EntityType, keepIDs []string) (int64, error) {
	tbl, err := lookup(t)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`DELETE FROM %s`, tbl.name)
	args := make([]any, 0, len(keepIDs))
	if len(keepIDs) > 0 {
		query += fmt.Sprintf(` WHERE %s NOT IN (%s)`, tbl.idCol, placeholders(len(keepIDs)))
		for _, id := range keepIDs {
			args = append(args, id)
		}
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("guildstore: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func selectSQL(tbl table) string {
	cols := append([]string{tbl.idCol, tbl.keyCol, tbl.nameCol}, tbl.extra...)
	cols = append(cols, "updated_at")
	return fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(cols, ", "), tbl.name)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner, t keys.EntityType, tbl table) (*domain.GuildEntity, error) {
	e := &domain.GuildEntity{Type: t}
	var updatedAt string

	extra, finish := tbl.scan(e)
	dest := append([]any{&e.ID, &e.Key, &e.Name}, extra...)
	dest = append(dest, &updatedAt)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("guildstore: scan failed: %w", err)
	}
	if finish != nil {
		finish()
	}
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return e, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
