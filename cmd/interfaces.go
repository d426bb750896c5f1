package cmd

import (
	"context"
	"io"

	"github.com/mwantia/vinyl"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
)

// API is the environment commands run against.
// It strips away everything not required for command operations.
type API interface {
	// Load reads the file at path into a record relative to base.
	// With stream set, regular files are opened as streams instead of
	// being read into a buffer. Directories get null contents.
	Load(ctx context.Context, path, base string, stream bool) (*vinyl.File, error)

	// OpenSink creates and opens the sink registered under name.
	// The target is interpreted by the sink (root directory, database path).
	OpenSink(ctx context.Context, name, target string) (sink.Sink, error)

	// Logger returns the logger commands should report through.
	Logger() *log.Logger
}

// Command represents an executable command.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "inspect [--stream] <path>...")
	Usage() string

	// Execute runs the command with parsed arguments
	// The writer parameter is where command output should be written
	// Returns exit code (0 = success) and error message
	Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
