package vinyl

import (
	"errors"
	"io"
)

// ErrNilDestination is returned by Pipe when no destination is given.
var ErrNilDestination = errors.New("vinyl: pipe destination is nil")

// PipeOptions control how Pipe hands contents to a destination.
type PipeOptions struct {
	// End closes the destination after the contents were written,
	// if it implements io.Closer.
	End bool
}

type PipeOption func(*PipeOptions)

func newDefaultPipeOptions() *PipeOptions {
	return &PipeOptions{
		End: true,
	}
}

// WithEnd controls whether the destination is closed after writing.
func WithEnd(end bool) PipeOption {
	return func(opts *PipeOptions) {
		opts.End = end
	}
}

// Pipe writes the current contents into dst and returns dst.
//
// Streams are copied with io.Copy, which uses dst's io.ReaderFrom when
// available; buffers are written in one call; a file without contents
// writes nothing. With End set (the default) dst is closed exactly once
// afterwards. On a write error dst is left open and the error returned.
// Piping a stream consumes it.
func (f *File) Pipe(dst io.Writer, opts ...PipeOption) (io.Writer, error) {
	if dst == nil {
		return nil, ErrNilDestination
	}

	options := newDefaultPipeOptions()
	for _, opt := range opts {
		opt(options)
	}

	switch f.contents.kind {
	case ContentsStream:
		if _, err := io.Copy(dst, f.contents.stream); err != nil {
			return dst, err
		}
	case ContentsBuffer:
		if _, err := dst.Write(f.contents.buffer); err != nil {
			return dst, err
		}
	}

	if options.End {
		if closer, ok := dst.(io.Closer); ok {
			return dst, closer.Close()
		}
	}

	return dst, nil
}
