package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/TheBitDrifter/depot"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64
}

type bounds struct {
	W, H float64
}

// benchWorld populates a world with moving entities inside bounds.
func benchWorld(entities int) (*depot.World, *depot.Dispatcher, error) {
	w := depot.Factory.NewWorld()
	pos := depot.FactoryNewComponent[position]()
	vel := depot.FactoryNewComponent[velocity]()
	box := depot.FactoryNewResource[bounds]().Serializable()
	if err := w.RegisterComponent(pos, vel); err != nil {
		return nil, nil, err
	}
	if err := w.RegisterResource(box); err != nil {
		return nil, nil, err
	}
	if err := box.Set(w, &bounds{W: 1000, H: 1000}); err != nil {
		return nil, nil, err
	}
	if err := depot.CommandsResource.Set(w, depot.Factory.NewCommands()); err != nil {
		return nil, nil, err
	}

	for i := range entities {
		b := w.BuildEntity().AddComponent(&position{X: float64(i % 1000), Y: float64(i % 1000)})
		if i%2 == 0 {
			b.AddComponent(&velocity{X: 1, Y: 2})
		}
		if err := b.Err(); err != nil {
			return nil, nil, err
		}
	}

	d := depot.Factory.NewDispatcher().
		AddSystemFunc("move", func(v depot.WorldView) error {
			for r := range v.Find(pos, vel).All() {
				p, dv := pos.From(r, 0), vel.From(r, 1)
				p.X += dv.X
				p.Y += dv.Y
			}
			return nil
		}).
		AddSystemFunc("wrap", func(v depot.WorldView) error {
			limits, err := box.Require(v)
			if err != nil {
				return err
			}
			cmds, err := depot.CommandsResource.Require(v)
			if err != nil {
				return err
			}
			outside := v.Find(depot.QueryEntity, pos).Filter(func(r depot.Result) bool {
				p := pos.From(r, 1)
				return p.X > limits.W || p.Y > limits.H
			})
			for e := range outside.Entries() {
				cmds.Add(e, &position{})
			}
			return outside.Err()
		})
	return w, d, nil
}

func runBench(ctx context.Context, env *env, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	entities := fs.Int("entities", env.cfg.Bench.Entities, "entity count")
	ticks := fs.Int("ticks", env.cfg.Bench.Ticks, "dispatcher passes")
	prof := fs.Bool("profile", false, "write a CPU profile")
	trace := fs.Bool("trace", false, "record spans and print per-system totals")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, d, err := benchWorld(*entities)
	if err != nil {
		return err
	}
	var tracer *depot.Tracer
	if *trace {
		tracer = depot.Factory.NewTracer("bench")
		if err := depot.TracerResource.Set(w, tracer); err != nil {
			return err
		}
	}

	if *prof {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath(env.cfg.Bench.ProfileDir), profile.NoShutdownHook, profile.Quiet)
		defer p.Stop()
	}

	totals := map[string]time.Duration{}
	start := time.Now()
	for tick := range *ticks {
		if err := ctx.Err(); err != nil {
			env.log.Warn("bench interrupted", zap.Int("tick", tick))
			return err
		}
		if err := d.Run(w); err != nil {
			return err
		}
		if tracer != nil {
			for _, span := range tracer.Root().Children {
				totals[span.Name] += span.Duration()
			}
			tracer.Reset()
		}
	}
	elapsed := time.Since(start)

	fmt.Fprintf(env.out, "%d entities, %d ticks: %s (%s/tick)\n",
		*entities, *ticks, elapsed, elapsed/time.Duration(max(*ticks, 1)))
	for _, name := range []string{"move", "wrap"} {
		if total, ok := totals[name]; ok {
			fmt.Fprintf(env.out, "  %-6s %s\n", name, total)
		}
	}
	return nil
}
