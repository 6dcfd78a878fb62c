// Package store persists depot snapshots in Postgres.
package store

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TheBitDrifter/depot"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("snapshot not found")

type Config struct {
	DSN             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
}

// Record describes one stored snapshot.
type Record struct {
	ID        uuid.UUID
	World     string
	Checksum  uint64
	Entities  int
	CreatedAt time.Time
}

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func Open(ctx context.Context, cfg Config, log *zap.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Store{pool: pool, log: log}, nil
}

// Migrate applies all pending migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Save stores snap under world. When the latest snapshot of world has the same
// checksum, its record is returned and nothing is written.
func (s *Store) Save(ctx context.Context, world string, snap depot.Snapshot) (Record, error) {
	sum, err := depot.Checksum(snap)
	if err != nil {
		return Record{}, fmt.Errorf("checksum snapshot: %w", err)
	}

	latest, err := s.latestRecord(ctx, world)
	switch {
	case err == nil && latest.Checksum == sum:
		s.log.Debug("snapshot unchanged", zap.String("world", world), zap.Stringer("id", latest.ID))
		return latest, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return Record{}, err
	}

	doc, err := json.Marshal(snap)
	if err != nil {
		return Record{}, fmt.Errorf("encode snapshot: %w", err)
	}

	rec := Record{
		ID:       uuid.New(),
		World:    world,
		Checksum: sum,
		Entities: len(snap.Entities),
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO snapshots (id, world, checksum, entities, document)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		rec.ID.String(), rec.World, int64(rec.Checksum), rec.Entities, doc,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("insert snapshot: %w", err)
	}

	s.log.Info("snapshot saved",
		zap.String("world", world),
		zap.Stringer("id", rec.ID),
		zap.Int("entities", rec.Entities),
	)
	return rec, nil
}

// Latest loads the most recent snapshot of world.
func (s *Store) Latest(ctx context.Context, world string) (depot.Snapshot, Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, world, checksum, entities, created_at, document
		 FROM snapshots WHERE world = $1
		 ORDER BY created_at DESC, id DESC LIMIT 1`, world,
	)
	return scanSnapshot(row)
}

func (s *Store) Load(ctx context.Context, id uuid.UUID) (depot.Snapshot, Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, world, checksum, entities, created_at, document
		 FROM snapshots WHERE id = $1`, id.String(),
	)
	return scanSnapshot(row)
}

// List returns the records of world, newest first. A limit of zero or less lists all.
func (s *Store) List(ctx context.Context, world string, limit int) ([]Record, error) {
	query := `SELECT id, world, checksum, entities, created_at
		 FROM snapshots WHERE world = $1
		 ORDER BY created_at DESC, id DESC`
	args := []any{world}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return records, nil
}

func (s *Store) latestRecord(ctx context.Context, world string) (Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, world, checksum, entities, created_at
		 FROM snapshots WHERE world = $1
		 ORDER BY created_at DESC, id DESC LIMIT 1`, world,
	)
	return scanRecord(row)
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec      Record
		id       string
		checksum int64
	)
	err := row.Scan(&id, &rec.World, &checksum, &rec.Entities, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("scan snapshot: %w", err)
	}
	return finishRecord(rec, id, checksum)
}

func scanSnapshot(row pgx.Row) (depot.Snapshot, Record, error) {
	var (
		rec      Record
		id       string
		checksum int64
		doc      []byte
	)
	err := row.Scan(&id, &rec.World, &checksum, &rec.Entities, &rec.CreatedAt, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return depot.Snapshot{}, Record{}, ErrNotFound
	}
	if err != nil {
		return depot.Snapshot{}, Record{}, fmt.Errorf("scan snapshot: %w", err)
	}
	rec, err = finishRecord(rec, id, checksum)
	if err != nil {
		return depot.Snapshot{}, Record{}, err
	}
	snap, err := depot.DecodeSnapshot(bytes.NewReader(doc), depot.FormatJSON)
	if err != nil {
		return depot.Snapshot{}, Record{}, err
	}
	return snap, rec, nil
}

func finishRecord(rec Record, id string, checksum int64) (Record, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Record{}, fmt.Errorf("parse snapshot id: %w", err)
	}
	rec.ID = parsed
	rec.Checksum = uint64(checksum)
	return rec, nil
}
