// Package sink provides destinations for vinyl files.
//
// A Sink hands out io.WriteCloser values per object key, so any File can be
// drained into it with File.Pipe. Dest combines the two: it derives the key
// from the file's relative path, pipes the contents and optionally points
// the file at its new location.
package sink

import (
	"context"
	"io"
	"time"

	"github.com/mwantia/vinyl/data"
)

// Sink is used as lifecycle entrypoint for destination implementations.
type Sink interface {
	// Name returns the identifier name defined for this sink
	Name() string
	// Open is part of the lifecycle behaviour and gets called before the first write.
	Open(ctx context.Context) error
	// Close is part of the lifecycle behaviour and releases held resources.
	Close(ctx context.Context) error

	// Capabilities returns a list of capabilities supported by this sink.
	Capabilities() *Capabilities

	// Writer returns a writer for the object stored under key. The object
	// is committed when the writer is closed. stat may be nil.
	Writer(ctx context.Context, key string, stat *data.Stat) (io.WriteCloser, error)
}

// DirectoryMaker is implemented by sinks that can represent directories.
type DirectoryMaker interface {
	Mkdir(ctx context.Context, key string, stat *data.Stat) error
}

// Aborter is implemented by writers that can discard an object instead of
// committing it.
type Aborter interface {
	Abort() error
}

// ObjectReader is implemented by sinks that can read back stored objects.
type ObjectReader interface {
	Get(ctx context.Context, key string) (*Object, error)
	Keys(ctx context.Context) ([]string, error)
}

// Object is a stored file as reported by an ObjectReader.
type Object struct {
	ID          string           `json:"id"`
	Key         string           `json:"key"`
	ContentType data.ContentType `json:"content_type"`
	Mode        data.FileMode    `json:"mode"`
	Size        int64            `json:"size"`
	ModifyTime  time.Time        `json:"modify_time"`
	Data        []byte           `json:"-"`
}

// NewObject builds an object record for key from the written bytes and the
// optional stat snapshot.
func NewObject(id, key string, buf []byte, stat *data.Stat) *Object {
	obj := &Object{
		ID:          id,
		Key:         key,
		ContentType: data.GetMIMEType(key),
		Mode:        0644,
		Size:        int64(len(buf)),
		ModifyTime:  time.Now(),
		Data:        buf,
	}

	if stat != nil {
		obj.Mode = stat.Mode.Perm()
		if !stat.ModifyTime.IsZero() {
			obj.ModifyTime = stat.ModifyTime
		}
		if stat.ContentType != "" {
			obj.ContentType = stat.ContentType
		}
	}

	return obj
}
