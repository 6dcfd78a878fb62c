package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/depot/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func openStore(ctx context.Context, env *env) (*store.Store, error) {
	db := env.cfg.Database
	s, err := store.Open(ctx, store.Config{
		DSN:             db.DSN,
		MaxConns:        db.MaxOpenConns,
		MinConns:        db.MaxIdleConns,
		MaxConnLifetime: db.ConnMaxLifetime,
	}, env.log)
	if err != nil {
		return nil, err
	}
	if db.Migrate {
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func runPush(ctx context.Context, env *env, args []string) error {
	fs := flag.NewFlagSet("push", flag.ContinueOnError)
	in := fs.String("in", "", "input snapshot file")
	format := fs.String("format", "", "input format (default from extension)")
	world := fs.String("world", "default", "world name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("push: -in is required")
	}

	snap, err := readSnapshot(*in, *format)
	if err != nil {
		return err
	}
	s, err := openStore(ctx, env)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.Save(ctx, *world, snap)
	if err != nil {
		return err
	}
	printRecord(env, rec)
	return nil
}

func runPull(ctx context.Context, env *env, args []string) error {
	fs := flag.NewFlagSet("pull", flag.ContinueOnError)
	world := fs.String("world", "default", "world name")
	id := fs.String("id", "", "snapshot id (default latest)")
	out := fs.String("out", "", "output snapshot file (default stdout)")
	format := fs.String("format", "", "output format (default from extension, else json)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openStore(ctx, env)
	if err != nil {
		return err
	}
	defer s.Close()

	var (
		snap depot.Snapshot
		rec  store.Record
	)
	if *id != "" {
		parsed, perr := uuid.Parse(*id)
		if perr != nil {
			return fmt.Errorf("pull: invalid id: %w", perr)
		}
		snap, rec, err = s.Load(ctx, parsed)
	} else {
		snap, rec, err = s.Latest(ctx, *world)
	}
	if err != nil {
		return err
	}
	env.log.Debug("pulled snapshot", zap.Stringer("id", rec.ID), zap.String("world", rec.World))
	return writeSnapshot(env.out, *out, *format, snap)
}

func runList(ctx context.Context, env *env, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	world := fs.String("world", "default", "world name")
	limit := fs.Int("limit", 20, "maximum records (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := openStore(ctx, env)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.List(ctx, *world, *limit)
	if err != nil {
		return err
	}
	for _, rec := range records {
		printRecord(env, rec)
	}
	return nil
}

func printRecord(env *env, rec store.Record) {
	fmt.Fprintf(env.out, "%s  %s  %016x  %d entities  %s\n",
		rec.ID, rec.World, rec.Checksum, rec.Entities, rec.CreatedAt.Format("2006-01-02 15:04:05"))
}
