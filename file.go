package vinyl

import (
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/google/uuid"
	"github.com/mwantia/vinyl/data"
)

// File is a virtual file: a path history anchored to a working and base
// directory, an optional stat snapshot and contents that are either a
// buffer, a stream or absent.
//
// A File is owned by one pipeline stage at a time and is not safe for
// concurrent mutation. Use Clone to fork processing.
type File struct {
	id         string
	history    []string
	cwd        string
	base       string
	stat       *data.Stat
	contents   contents
	attributes map[string]any
}

// New creates a File from the given options. Unset fields take their
// defaults: cwd is the process working directory and base is cwd.
func New(opts ...Option) (*File, error) {
	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	cwd := options.cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("vinyl: failed to resolve working directory: %w", err)
		}
		cwd = wd
	}

	base := options.base
	if base == "" {
		base = cwd
	}

	return &File{
		id:         newFileID(),
		history:    options.history,
		cwd:        cwd,
		base:       base,
		stat:       options.stat,
		contents:   options.contents,
		attributes: options.attributes,
	}, nil
}

// ID returns the identifier of this record instance.
// Clones receive their own identifier.
func (f *File) ID() string {
	return f.id
}

func (f *File) Cwd() string {
	return f.cwd
}

func (f *File) SetCwd(cwd string) {
	f.cwd = cwd
}

func (f *File) Base() string {
	return f.base
}

func (f *File) SetBase(base string) {
	f.base = base
}

// Stat returns the attached stat snapshot, or nil.
func (f *File) Stat() *data.Stat {
	return f.stat
}

func (f *File) SetStat(stat *data.Stat) {
	f.stat = stat
}

// Contents returns the current payload: a []byte, an io.Reader or nil.
func (f *File) Contents() any {
	return f.contents.value()
}

// SetContents replaces the contents. v must be a []byte, *bytes.Buffer,
// io.Reader or nil; anything else fails with ErrInvalidContentType and
// leaves the current contents unchanged.
func (f *File) SetContents(v any) error {
	c, err := newContents(v)
	if err != nil {
		return err
	}

	f.contents = c
	return nil
}

// SetBuffer replaces the contents with b. A nil slice clears them.
func (f *File) SetBuffer(b []byte) error {
	return f.SetContents(b)
}

// SetStream replaces the contents with r. A nil reader clears them.
func (f *File) SetStream(r io.Reader) error {
	return f.SetContents(r)
}

// ClearContents drops the contents.
func (f *File) ClearContents() {
	f.contents = contents{kind: ContentsNull}
}

// Buffer returns the buffered contents and whether the file is buffered.
func (f *File) Buffer() ([]byte, bool) {
	return f.contents.buffer, f.contents.kind == ContentsBuffer
}

// Stream returns the streamed contents and whether the file is streamed.
func (f *File) Stream() (io.Reader, bool) {
	return f.contents.stream, f.contents.kind == ContentsStream
}

// Kind reports the current content kind.
func (f *File) Kind() ContentKind {
	return f.contents.kind
}

func (f *File) IsBuffer() bool {
	return f.contents.kind == ContentsBuffer
}

func (f *File) IsStream() bool {
	return f.contents.kind == ContentsStream
}

func (f *File) IsNull() bool {
	return f.contents.kind == ContentsNull
}

// IsDirectory reports whether the file has no contents and its stat
// snapshot describes a directory.
func (f *File) IsDirectory() bool {
	return f.IsNull() && f.stat != nil && f.stat.IsDirectory()
}

// Attr returns a custom attribute.
func (f *File) Attr(key string) (any, bool) {
	v, ok := f.attributes[key]
	return v, ok
}

// SetAttr sets a custom attribute. Reserved field names are rejected.
func (f *File) SetAttr(key string, value any) error {
	if key == "" || reservedField(key) {
		return fmt.Errorf("%w: '%s' is not a valid attribute name", ErrInvalidDescriptor, key)
	}

	if f.attributes == nil {
		f.attributes = make(map[string]any)
	}
	f.attributes[key] = value
	return nil
}

func (f *File) DeleteAttr(key string) {
	delete(f.attributes, key)
}

// Attributes returns a shallow copy of all custom attributes.
func (f *File) Attributes() map[string]any {
	return maps.Clone(f.attributes)
}

func newFileID() string {
	return uuid.Must(uuid.NewV7()).String()
}
