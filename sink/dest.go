package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/mwantia/vinyl"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/log"
)

// DestOptions control how Dest writes a file into a sink.
type DestOptions struct {
	// Directories creates directory entries for directory files on sinks
	// implementing DirectoryMaker instead of failing with ErrIsDirectory.
	Directories bool

	// Rebase points the file at root/key after a successful write and
	// makes root its new base.
	Rebase bool
	Root   string

	Logger *log.Logger
}

type DestOption func(*DestOptions)

func WithDirectories() DestOption {
	return func(opts *DestOptions) {
		opts.Directories = true
	}
}

// WithRebase moves the file to root after writing, the way an output
// stage records where a file ended up.
func WithRebase(root string) DestOption {
	return func(opts *DestOptions) {
		opts.Rebase = true
		opts.Root = root
	}
}

func WithLogger(logger *log.Logger) DestOption {
	return func(opts *DestOptions) {
		opts.Logger = logger
	}
}

// Key returns the object key a file is stored under: its relative path,
// or its base name when it lies outside its base directory.
func Key(f *vinyl.File) (string, error) {
	rel, err := f.Relative()
	if err != nil {
		if errors.Is(err, vinyl.ErrMissingPath) {
			return "", err
		}
		rel = f.Basename()
	}

	key, err := CleanKey(rel)
	if err != nil {
		if base := f.Basename(); base != "" && base != rel {
			return CleanKey(base)
		}
		return "", err
	}

	return key, nil
}

// Dest writes f into s and returns the key it was stored under.
// The file's contents are piped with End set, so streams are consumed.
func Dest(ctx context.Context, s Sink, f *vinyl.File, opts ...DestOption) (string, error) {
	options := &DestOptions{
		Logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	key, err := Key(f)
	if err != nil {
		return "", err
	}

	if f.IsDirectory() {
		maker, ok := s.(DirectoryMaker)
		if !options.Directories || !ok {
			return "", fmt.Errorf("%w: %s", data.ErrIsDirectory, key)
		}

		if err := maker.Mkdir(ctx, key, f.Stat()); err != nil {
			return "", err
		}

		options.Logger.Debug("created directory '%s' in %s", key, s.Name())
		rebase(f, key, options)
		return key, nil
	}

	if buf, ok := f.Buffer(); ok && !s.Capabilities().Allows(int64(len(buf))) {
		return "", fmt.Errorf("%w: %s is %d bytes", data.ErrTooLarge, key, len(buf))
	}

	w, err := s.Writer(ctx, key, f.Stat())
	if err != nil {
		return "", err
	}

	if _, err := f.Pipe(w, vinyl.WithEnd(true)); err != nil {
		return "", errors.Join(err, abort(w))
	}

	options.Logger.Debug("wrote %s as '%s' to %s", f.ID(), key, s.Name())
	rebase(f, key, options)

	return key, nil
}

// abort releases a writer after a failed pipe without committing it,
// if the writer supports that.
func abort(w io.WriteCloser) error {
	if a, ok := w.(Aborter); ok {
		return a.Abort()
	}

	return w.Close()
}

func rebase(f *vinyl.File, key string, options *DestOptions) {
	if !options.Rebase {
		return
	}

	f.SetBase(options.Root)
	f.SetPath(filepath.Join(options.Root, filepath.FromSlash(key)))
}
