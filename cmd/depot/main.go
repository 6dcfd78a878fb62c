// depot is the command-line companion of the depot ECS: it converts, checksums and
// persists world snapshots and runs a movement benchmark.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/depot/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `Usage: depot [-config file] <command> [flags]

Commands:
  convert   re-encode a snapshot file (json <-> yaml)
  checksum  print the checksum of a snapshot file
  push      store a snapshot file in the database
  pull      write a stored snapshot to a file
  list      list stored snapshots of a world
  bench     run the movement benchmark
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "depot:", err)
		}
		os.Exit(1)
	}
}

type command func(ctx context.Context, env *env, args []string) error

type env struct {
	cfg *config.Config
	log *zap.Logger
	out io.Writer
}

var commands = map[string]command{
	"convert":  runConvert,
	"checksum": runChecksum,
	"push":     runPush,
	"pull":     runPull,
	"list":     runList,
	"bench":    runBench,
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("depot", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	configPath := fs.String("config", "", "path to a TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		return fmt.Errorf("unknown command %q", fs.Arg(0))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()
	depot.Config.SetLogger(log)

	return cmd(ctx, &env{cfg: cfg, log: log, out: out}, fs.Args()[1:])
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
