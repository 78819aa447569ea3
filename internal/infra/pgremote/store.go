// Package pgremote implements the remote item and tag stores on PostgreSQL.
// Every error leaving this package is a *domain.RemoteError.
package pgremote

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/runoshun/inbox/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Store implements domain.RecordStore and domain.TagStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements RecordStore and TagStore.
var (
	_ domain.RecordStore       = (*Store)(nil)
	_ domain.TagStore          = (*Store)(nil)
	_ domain.RemoteInitializer = (*Store)(nil)
)

// Open creates a connection pool for dsn. Connections are established
// lazily, so an unreachable server surfaces on first use rather than here.
func Open(ctx context.Context, dsn string, connectTimeout time.Duration) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if connectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = connectTimeout
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", mapPgErr(err))
	}
	return &Store{pool: pool}, nil
}

// Close closes the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return mapPgErr(err)
	}
	return nil
}

// EnsureSchema creates the tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return mapPgErr(err)
	}
	return nil
}

// InsertItem inserts rec for id. A second insert with the same ClientID
// returns the existing row's ID.
func (s *Store) InsertItem(ctx context.Context, id domain.Identity, rec domain.CaptureRecord) (string, error) {
	var due any
	if rec.DueAt != nil {
		due = rec.DueAt.String()
	}

	var itemID string
	err := s.pool.QueryRow(ctx, `
		with ins as (
			insert into items (owner_id, client_id, kind, title, body, status, context, energy, duration_minutes, due_at)
			values ($1, $2, $3, $4, $5, $6, nullif($7, ''), nullif($8, ''), $9, $10::date)
			on conflict (owner_id, client_id) do nothing
			returning id
		)
		select id::text from ins
		union all
		select id::text from items where owner_id = $1 and client_id = $2
		limit 1
	`, id.OwnerID, rec.ClientID, string(rec.Kind), rec.Title, rec.Body, string(rec.Status),
		rec.Context, string(rec.Energy), rec.DurationMinutes, due).Scan(&itemID)
	if err != nil {
		return "", mapPgErr(err)
	}
	return itemID, nil
}

// UpsertTag returns the ID of the owner's tag called name, creating it if needed.
func (s *Store) UpsertTag(ctx context.Context, id domain.Identity, name string) (string, error) {
	var tagID string
	err := s.pool.QueryRow(ctx, `
		insert into tags (owner_id, name) values ($1, $2)
		on conflict (owner_id, name) do update set name = excluded.name
		returning id::text
	`, id.OwnerID, name).Scan(&tagID)
	if err != nil {
		return "", mapPgErr(err)
	}
	return tagID, nil
}

// LinkTag links an item and a tag owned by id.
func (s *Store) LinkTag(ctx context.Context, id domain.Identity, itemID, tagID string) error {
	_, err := s.pool.Exec(ctx, `
		insert into item_tags (item_id, tag_id)
		select i.id, t.id
		from items i, tags t
		where i.id = $2::uuid and i.owner_id = $1
		  and t.id = $3::uuid and t.owner_id = $1
		on conflict do nothing
	`, id.OwnerID, itemID, tagID)
	if err != nil {
		return mapPgErr(err)
	}
	return nil
}
