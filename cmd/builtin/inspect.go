package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/vinyl/cmd"
)

// InspectCommand loads files from disk and prints their summary.
type InspectCommand struct{}

// Name returns the command identifier
func (ic *InspectCommand) Name() string {
	return "inspect"
}

// Description returns human-readable help text
func (ic *InspectCommand) Description() string {
	return "Load files as records and print their summary"
}

// Usage returns a usage string for help
func (ic *InspectCommand) Usage() string {
	return "inspect [--stream] [--base=<dir>] <path>..."
}

// Execute runs the command with parsed arguments
// Returns exit code (0 = success) and error message
func (ic *InspectCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return 2, fmt.Errorf("inspect: missing path")
	}

	for _, path := range args.Args {
		f, err := api.Load(ctx, path, args.String("base"), args.Bool("stream"))
		if err != nil {
			return 1, fmt.Errorf("inspect: %w", err)
		}

		size := "-"
		if stat := f.Stat(); stat != nil && !stat.IsDirectory() {
			size = humanize.Bytes(uint64(stat.Size))
		}

		fmt.Fprintf(writer, "%s\t%s\t%s\n", f.Inspect(), f.Kind(), size)

		if err := cmd.Release(f); err != nil {
			return 1, err
		}
	}

	return 0, nil
}

// GetFlags returns the flag set for this command
func (ic *InspectCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"stream": {
				Name:        "stream",
				Short:       "s",
				Type:        "bool",
				Description: "Open files as streams instead of reading them",
			},
			"base": {
				Name:        "base",
				Short:       "b",
				Type:        "string",
				Description: "Base directory relative paths are computed from",
			},
		},
	}
}
