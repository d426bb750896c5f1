package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/vinyl/cmd"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/sink"
)

// CpCommand writes files from disk into a sink.
type CpCommand struct{}

// Name returns the command identifier
func (cc *CpCommand) Name() string {
	return "cp"
}

// Description returns human-readable help text
func (cc *CpCommand) Description() string {
	return "Copy files into a sink, keyed by their relative path"
}

// Usage returns a usage string for help
func (cc *CpCommand) Usage() string {
	return "cp --sink=<memory|billy|direct|sqlite> [--target=<target>] [--base=<dir>] [--stream] <path>..."
}

// Execute runs the command with parsed arguments
// Returns exit code (0 = success) and error message
func (cc *CpCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (code int, err error) {
	if len(args.Args) == 0 {
		return 2, fmt.Errorf("cp: missing path")
	}

	s, err := api.OpenSink(ctx, args.String("sink"), args.String("target"))
	if err != nil {
		return 1, fmt.Errorf("cp: %w", err)
	}
	defer func() {
		if closeErr := s.Close(ctx); closeErr != nil && err == nil {
			code, err = 1, closeErr
		}
	}()

	var errs data.Errors
	var total int64
	copied := 0

	// Failed paths are reported together after all others were copied
	for _, path := range args.Args {
		f, err := api.Load(ctx, path, args.String("base"), args.Bool("stream"))
		if err != nil {
			errs.Add(fmt.Errorf("cp: %w", err))
			continue
		}

		key, err := sink.Dest(ctx, s, f, sink.WithDirectories(), sink.WithLogger(api.Logger()))
		if err := errors.Join(err, cmd.Release(f)); err != nil {
			errs.Add(fmt.Errorf("cp: %s: %w", path, err))
			continue
		}

		if stat := f.Stat(); stat != nil && !stat.IsDirectory() {
			total += stat.Size
		}
		copied++

		fmt.Fprintf(writer, "%s -> %s:%s\n", path, s.Name(), key)
	}

	fmt.Fprintf(writer, "copied %d file(s), %s\n", copied, humanize.Bytes(uint64(total)))

	if errs.Len() > 0 {
		return 1, errs.Errors()
	}
	return 0, nil
}

// GetFlags returns the flag set for this command
func (cc *CpCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"sink": {
				Name:        "sink",
				Type:        "string",
				Required:    true,
				Description: "Sink to write into",
			},
			"target": {
				Name:        "target",
				Short:       "t",
				Type:        "string",
				Description: "Sink target, such as a directory or database path",
			},
			"base": {
				Name:        "base",
				Short:       "b",
				Type:        "string",
				Description: "Base directory keys are computed from",
			},
			"stream": {
				Name:        "stream",
				Short:       "s",
				Type:        "bool",
				Description: "Open files as streams instead of reading them",
			},
		},
	}
}
