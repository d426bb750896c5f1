package vinyl

import (
	"bytes"
	"slices"

	"github.com/huandu/go-clone"
)

// CloneOptions control how Clone copies a File.
type CloneOptions struct {
	// Deep copies attribute values recursively instead of sharing them.
	Deep bool

	// Contents copies buffered contents into a new allocation.
	// Streams are always shared.
	Contents bool
}

type CloneOption func(*CloneOptions)

func newDefaultCloneOptions() *CloneOptions {
	return &CloneOptions{
		Deep:     false,
		Contents: true,
	}
}

// Deep enables or disables recursive copying of attribute values.
func Deep(deep bool) CloneOption {
	return func(opts *CloneOptions) {
		opts.Deep = deep
	}
}

// CopyContents enables or disables copying of buffered contents.
func CopyContents(enabled bool) CloneOption {
	return func(opts *CloneOptions) {
		opts.Contents = enabled
	}
}

// Clone returns a new File with its own identifier.
//
// The history and the attribute map are always copied, so assigning a
// path or attribute on either file never affects the other. Attribute
// values are shared unless Deep is set. Buffered contents are copied when
// Contents is set; streams are never duplicated and stay shared between
// both files. The stat snapshot is always copied.
func (f *File) Clone(opts ...CloneOption) *File {
	options := newDefaultCloneOptions()
	for _, opt := range opts {
		opt(options)
	}

	c := &File{
		id:         newFileID(),
		history:    slices.Clone(f.history),
		cwd:        f.cwd,
		base:       f.base,
		attributes: make(map[string]any, len(f.attributes)),
	}

	for key, value := range f.attributes {
		if options.Deep {
			value = clone.Slowly(value)
		}
		c.attributes[key] = value
	}

	c.contents = f.contents
	if options.Contents && f.contents.kind == ContentsBuffer {
		c.contents = contents{
			kind:   ContentsBuffer,
			buffer: bytes.Clone(f.contents.buffer),
		}
	}

	c.stat = f.stat.Clone()

	return c
}

// CloneDeep is shorthand for Clone(Deep(deep), CopyContents(true)).
func (f *File) CloneDeep(deep bool) *File {
	return f.Clone(Deep(deep), CopyContents(true))
}
