// Package postgres persists the registry in PostgreSQL via database/sql and
// lib/pq. Mutating operations are expected to run inside the SQL transaction
// installed in context by Tx; reads fall back to the pool.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"easel/internal/registry/models"
	"easel/pkg/platform/sentinel"
	txcontext "easel/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// Store implements the registry store on PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database and applies the schema.
func Open(databaseURL string) (*Store, *sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("apply schema: %w", err)
	}
	return New(db), db, nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) AttributeCount(ctx context.Context) (int, error) {
	var count int
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM attributes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attributes: %w", err)
	}
	return count, nil
}

func (s *Store) AppendAttribute(ctx context.Context, attribute *models.Attribute) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO attributes (id, name, created_at)
		SELECT $1, $2, $3
		WHERE $1 = (SELECT COUNT(*) FROM attributes)`,
		attribute.ID, attribute.Name, attribute.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attribute: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert attribute: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Store) FindAttribute(ctx context.Context, attributeID int) (*models.Attribute, error) {
	var a models.Attribute
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, name, created_at FROM attributes WHERE id = $1`,
		attributeID,
	).Scan(&a.ID, &a.Name, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find attribute: %w", err)
	}
	return &a, nil
}

func (s *Store) ListAttributes(ctx context.Context) ([]*models.Attribute, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, name, created_at FROM attributes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	defer rows.Close()

	var attributes []*models.Attribute
	for rows.Next() {
		var a models.Attribute
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		attributes = append(attributes, &a)
	}
	return attributes, rows.Err()
}

func (s *Store) TraitCount(ctx context.Context, attributeID int) (int, error) {
	if _, err := s.FindAttribute(ctx, attributeID); err != nil {
		return 0, err
	}
	var count int
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM traits WHERE attribute_id = $1`,
		attributeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count traits: %w", err)
	}
	return count, nil
}

func (s *Store) AppendTrait(ctx context.Context, trait *models.Trait) error {
	if _, err := s.FindAttribute(ctx, trait.AttributeID); err != nil {
		return err
	}
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO traits (attribute_id, id, name, rarity)
		SELECT $1, $2, $3, $4
		WHERE $2 = (SELECT COUNT(*) + 1 FROM traits WHERE attribute_id = $1)`,
		trait.AttributeID, trait.ID, trait.Name, string(trait.Rarity),
	)
	if err != nil {
		return fmt.Errorf("insert trait: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert trait: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Store) ListTraits(ctx context.Context, attributeID int) ([]*models.Trait, error) {
	if _, err := s.FindAttribute(ctx, attributeID); err != nil {
		return nil, err
	}
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT attribute_id, id, name, rarity FROM traits
		WHERE attribute_id = $1 ORDER BY id`,
		attributeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list traits: %w", err)
	}
	defer rows.Close()

	var traits []*models.Trait
	for rows.Next() {
		var t models.Trait
		var rarity string
		if err := rows.Scan(&t.AttributeID, &t.ID, &t.Name, &rarity); err != nil {
			return nil, fmt.Errorf("scan trait: %w", err)
		}
		t.Rarity = models.Rarity(rarity)
		traits = append(traits, &t)
	}
	return traits, rows.Err()
}

func (s *Store) AppendCID(ctx context.Context, attributeID int, cid string) error {
	if _, err := s.FindAttribute(ctx, attributeID); err != nil {
		return err
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO cid_history (attribute_id, cid) VALUES ($1, $2)`,
		attributeID, cid,
	)
	if err != nil {
		return fmt.Errorf("insert cid: %w", err)
	}
	return nil
}

func (s *Store) CIDHistory(ctx context.Context, attributeID int) ([]string, error) {
	if _, err := s.FindAttribute(ctx, attributeID); err != nil {
		return nil, err
	}
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT cid FROM cid_history WHERE attribute_id = $1 ORDER BY seq`,
		attributeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list cid history: %w", err)
	}
	defer rows.Close()

	var history []string
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			return nil, fmt.Errorf("scan cid: %w", err)
		}
		history = append(history, cid)
	}
	return history, rows.Err()
}

func (s *Store) CurrentCID(ctx context.Context, attributeID int) (string, error) {
	if _, err := s.FindAttribute(ctx, attributeID); err != nil {
		return "", err
	}
	var cid string
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT cid FROM cid_history WHERE attribute_id = $1
		ORDER BY seq DESC LIMIT 1`,
		attributeID,
	).Scan(&cid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("current cid: %w", err)
	}
	return cid, nil
}

func (s *Store) AppendScript(ctx context.Context, script string) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO generation_scripts (script) VALUES ($1)`,
		script,
	)
	if err != nil {
		return fmt.Errorf("insert script: %w", err)
	}
	return nil
}

func (s *Store) ListScripts(ctx context.Context) ([]string, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT script FROM generation_scripts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []string
	for rows.Next() {
		var script string
		if err := rows.Scan(&script); err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		scripts = append(scripts, script)
	}
	return scripts, rows.Err()
}
