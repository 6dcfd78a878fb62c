package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/TheBitDrifter/depot"
)

func runConvert(_ context.Context, env *env, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	in := fs.String("in", "", "input snapshot file")
	out := fs.String("out", "", "output snapshot file (default stdout)")
	from := fs.String("from", "", "input format (default from extension)")
	to := fs.String("to", "", "output format (default from extension, else json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("convert: -in is required")
	}

	snap, err := readSnapshot(*in, *from)
	if err != nil {
		return err
	}
	return writeSnapshot(env.out, *out, *to, snap)
}

func runChecksum(_ context.Context, env *env, args []string) error {
	fs := flag.NewFlagSet("checksum", flag.ContinueOnError)
	in := fs.String("in", "", "input snapshot file")
	format := fs.String("format", "", "input format (default from extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("checksum: -in is required")
	}

	snap, err := readSnapshot(*in, *format)
	if err != nil {
		return err
	}
	sum, err := depot.Checksum(snap)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%016x  %s\n", sum, *in)
	return nil
}

// formatFor resolves an explicit format name, falling back to the file extension
// and then to JSON.
func formatFor(name, path string) (depot.Format, error) {
	if name != "" {
		return depot.ParseFormat(name)
	}
	if ext := filepath.Ext(path); ext != "" {
		if f, err := depot.ParseFormat(ext[1:]); err == nil {
			return f, nil
		}
	}
	return depot.FormatJSON, nil
}

func readSnapshot(path, format string) (depot.Snapshot, error) {
	f, err := formatFor(format, path)
	if err != nil {
		return depot.Snapshot{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return depot.Snapshot{}, err
	}
	defer file.Close()
	return depot.DecodeSnapshot(file, f)
}

// writeSnapshot encodes snap to path, or to stdout when path is empty.
func writeSnapshot(stdout io.Writer, path, format string, snap depot.Snapshot) error {
	f, err := formatFor(format, path)
	if err != nil {
		return err
	}
	if path == "" {
		return depot.EncodeSnapshot(stdout, snap, f)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := depot.EncodeSnapshot(file, snap, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
