package vinyl

import (
	"fmt"
	"io"

	"github.com/mwantia/vinyl/data"
)

// Option configures a File during construction.
type Option func(*options) error

type options struct {
	history    []string
	cwd        string
	base       string
	stat       *data.Stat
	contents   contents
	attributes map[string]any
}

func newDefaultOptions() *options {
	return &options{
		attributes: make(map[string]any),
	}
}

// WithPath seeds the history with p. An empty path leaves the history
// untouched; a path equal to the last entry is not recorded twice.
func WithPath(p string) Option {
	return func(opts *options) error {
		opts.history = appendPath(opts.history, p)
		return nil
	}
}

// WithHistory seeds the history with paths, in order, applying the same
// de-duplication rule as SetPath.
func WithHistory(paths ...string) Option {
	return func(opts *options) error {
		for _, p := range paths {
			opts.history = appendPath(opts.history, p)
		}
		return nil
	}
}

// WithCwd sets the working directory. Without it the process working
// directory is used.
func WithCwd(cwd string) Option {
	return func(opts *options) error {
		opts.cwd = cwd
		return nil
	}
}

// WithBase sets the base directory. Without it the working directory is
// used.
func WithBase(base string) Option {
	return func(opts *options) error {
		opts.base = base
		return nil
	}
}

// WithStat attaches a stat snapshot.
func WithStat(stat *data.Stat) Option {
	return func(opts *options) error {
		opts.stat = stat
		return nil
	}
}

// WithContents sets the initial contents. v must be a []byte,
// *bytes.Buffer, io.Reader or nil.
func WithContents(v any) Option {
	return func(opts *options) error {
		c, err := newContents(v)
		if err != nil {
			return err
		}

		opts.contents = c
		return nil
	}
}

// WithBuffer sets buffered contents.
func WithBuffer(b []byte) Option {
	return WithContents(b)
}

// WithStream sets streamed contents.
func WithStream(r io.Reader) Option {
	return WithContents(r)
}

// WithAttribute attaches a custom attribute.
func WithAttribute(key string, value any) Option {
	return func(opts *options) error {
		if key == "" {
			return fmt.Errorf("%w: empty attribute name", ErrInvalidDescriptor)
		}
		if reservedField(key) {
			return fmt.Errorf("%w: '%s' is a reserved field", ErrInvalidDescriptor, key)
		}

		opts.attributes[key] = value
		return nil
	}
}
