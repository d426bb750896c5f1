package billy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
)

// BillySink writes objects into any billy.Filesystem, such as an
// in-memory filesystem or a git worktree.
type BillySink struct {
	bfs billy.Filesystem
	log *log.Logger
}

type Option func(*BillySink)

func WithLogger(logger *log.Logger) Option {
	return func(bs *BillySink) {
		bs.log = logger.Named("billy")
	}
}

// NewBillySink wraps bfs. A nil filesystem is replaced by an empty memfs.
func NewBillySink(bfs billy.Filesystem, opts ...Option) *BillySink {
	if bfs == nil {
		bfs = memfs.New()
	}

	bs := &BillySink{
		bfs: bfs,
		log: log.Nop(),
	}

	for _, opt := range opts {
		opt(bs)
	}

	return bs
}

// Unwrap returns the underlying billy.Filesystem.
func (bs *BillySink) Unwrap() billy.Filesystem {
	return bs.bfs
}

// Name returns the identifier name defined for this sink
func (*BillySink) Name() string {
	return "billy"
}

func (bs *BillySink) Open(ctx context.Context) error {
	return nil
}

func (bs *BillySink) Close(ctx context.Context) error {
	return nil
}

// Capabilities returns a list of capabilities supported by this sink.
func (bs *BillySink) Capabilities() *sink.Capabilities {
	caps := []sink.Capability{
		sink.CapabilityStreaming,
		sink.CapabilityDirectories,
		sink.CapabilityRead,
	}
	if _, ok := bs.bfs.(billy.Change); ok {
		caps = append(caps, sink.CapabilityStat)
	}

	return &sink.Capabilities{Capabilities: caps}
}

func (bs *BillySink) Writer(ctx context.Context, key string, stat *data.Stat) (io.WriteCloser, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	if info, err := bs.bfs.Stat(key); err == nil && info.IsDir() {
		return nil, fmt.Errorf("%w: %s", data.ErrIsDirectory, key)
	}

	if dir := path.Dir(key); dir != "." {
		if err := bs.bfs.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	perm := fs.FileMode(0644)
	if stat != nil && stat.Mode.Perm() != 0 {
		perm = stat.Mode.Perm().FS()
	}

	file, err := bs.bfs.OpenFile(key, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return nil, err
	}

	bs.log.Debug("writing '%s'", key)
	return &fileWriter{bfs: bs.bfs, file: file, key: key, stat: stat.Clone()}, nil
}

func (bs *BillySink) Mkdir(ctx context.Context, key string, stat *data.Stat) error {
	key, err := sink.CleanKey(key)
	if err != nil {
		return err
	}

	perm := fs.FileMode(0755)
	if stat != nil && stat.Mode.Perm() != 0 {
		perm = stat.Mode.Perm().FS()
	}

	return bs.bfs.MkdirAll(key, perm)
}

func (bs *BillySink) Get(ctx context.Context, key string) (*sink.Object, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	info, err := bs.bfs.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, key)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", data.ErrIsDirectory, key)
	}

	buf, err := util.ReadFile(bs.bfs, key)
	if err != nil {
		return nil, err
	}

	return sink.NewObject(key, key, buf, data.StatFromFileInfo(info)), nil
}

func (bs *BillySink) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	err := util.Walk(bs.bfs, "/", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			// An untouched filesystem may not have a root yet
			if p == "/" && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !info.IsDir() {
			keys = append(keys, path.Clean(p[1:]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

type fileWriter struct {
	bfs  billy.Filesystem
	file billy.File
	key  string
	stat *data.Stat
}

func (fw *fileWriter) Write(p []byte) (int, error) {
	return fw.file.Write(p)
}

func (fw *fileWriter) Close() error {
	if err := fw.file.Close(); err != nil {
		return err
	}

	change, ok := fw.bfs.(billy.Change)
	if !ok || fw.stat == nil {
		return nil
	}

	if perm := fw.stat.Mode.Perm(); perm != 0 {
		if err := change.Chmod(fw.key, perm.FS()); err != nil {
			return err
		}
	}
	if !fw.stat.ModifyTime.IsZero() {
		atime := fw.stat.AccessTime
		if atime.IsZero() {
			atime = fw.stat.ModifyTime
		}
		return change.Chtimes(fw.key, atime, fw.stat.ModifyTime)
	}

	return nil
}

// Abort closes and removes the partially written file.
func (fw *fileWriter) Abort() error {
	return errors.Join(fw.file.Close(), fw.bfs.Remove(fw.key))
}
