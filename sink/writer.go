package sink

import (
	"bytes"
	"fmt"

	"github.com/mwantia/vinyl/data"
)

// BufferedWriter collects written bytes in memory and hands them to a
// commit function on Close. Sinks that store whole values (KV stores,
// database rows) use it to implement Writer.
type BufferedWriter struct {
	buf     bytes.Buffer
	limit   int64
	closed  bool
	commit  func(data []byte) error
	written int64
}

// NewBufferedWriter returns a writer committing through commit.
// A limit greater than 0 rejects writes that would exceed it.
func NewBufferedWriter(limit int64, commit func(data []byte) error) *BufferedWriter {
	return &BufferedWriter{
		limit:  limit,
		commit: commit,
	}
}

func (bw *BufferedWriter) Write(p []byte) (int, error) {
	if bw.closed {
		return 0, data.ErrClosed
	}

	if bw.limit > 0 && bw.written+int64(len(p)) > bw.limit {
		return 0, fmt.Errorf("%w: limit is %d bytes", data.ErrTooLarge, bw.limit)
	}

	n, err := bw.buf.Write(p)
	bw.written += int64(n)
	return n, err
}

// Close commits the collected bytes. It fails on a second call.
func (bw *BufferedWriter) Close() error {
	if bw.closed {
		return data.ErrClosed
	}
	bw.closed = true

	return bw.commit(bw.buf.Bytes())
}

// Abort discards the collected bytes without committing them.
func (bw *BufferedWriter) Abort() error {
	if bw.closed {
		return data.ErrClosed
	}
	bw.closed = true
	bw.buf.Reset()

	return nil
}
