package direct

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
)

// DirectSink writes objects as files below a root directory on the local
// filesystem. Mode and modification time are taken from the stat snapshot.
type DirectSink struct {
	mu   sync.RWMutex
	path string

	dirMode data.FileMode
	log     *log.Logger
}

type Option func(*DirectSink)

// WithDirectoryMode sets the permissions of created parent directories.
func WithDirectoryMode(mode data.FileMode) Option {
	return func(ds *DirectSink) {
		ds.dirMode = mode.Perm()
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(ds *DirectSink) {
		ds.log = logger.Named("direct")
	}
}

func NewDirectSink(path string, opts ...Option) *DirectSink {
	ds := &DirectSink{
		path:    filepath.Clean(path),
		dirMode: 0755,
		log:     log.Nop(),
	}

	for _, opt := range opts {
		opt(ds)
	}

	return ds
}

// Name returns the identifier name defined for this sink
func (*DirectSink) Name() string {
	return "direct"
}

// Root returns the directory objects are written to.
func (ds *DirectSink) Root() string {
	return ds.path
}

// Open is part of the lifecycle behaviour and creates the root directory.
func (ds *DirectSink) Open(ctx context.Context) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if err := os.MkdirAll(ds.path, ds.dirMode.FS()); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return data.ErrPermission
		}
		return fmt.Errorf("%w: %v", data.ErrSinkUnavailable, err)
	}

	info, err := os.Stat(ds.path)
	if err != nil {
		return fmt.Errorf("%w: %v", data.ErrSinkUnavailable, err)
	}
	if !info.IsDir() {
		return data.ErrNotDirectory
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this sink.
func (ds *DirectSink) Close(ctx context.Context) error {
	// Written files persist independently
	return nil
}

// Capabilities returns a list of capabilities supported by this sink.
func (ds *DirectSink) Capabilities() *sink.Capabilities {
	return &sink.Capabilities{
		Capabilities: []sink.Capability{
			sink.CapabilityStreaming,
			sink.CapabilityDirectories,
			sink.CapabilityStat,
			sink.CapabilityRead,
		},
	}
}

func (ds *DirectSink) Writer(ctx context.Context, key string, stat *data.Stat) (io.WriteCloser, error) {
	full, err := ds.resolve(key)
	if err != nil {
		return nil, err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(full), ds.dirMode.FS()); err != nil {
		return nil, err
	}

	perm := fs.FileMode(0644)
	if stat != nil && stat.Mode.Perm() != 0 {
		perm = stat.Mode.Perm().FS()
	}

	file, err := os.OpenFile(full, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, data.ErrPermission
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			if info, statErr := os.Stat(full); statErr == nil && info.IsDir() {
				return nil, fmt.Errorf("%w: %s", data.ErrIsDirectory, key)
			}
		}
		return nil, err
	}

	ds.log.Debug("writing '%s'", full)
	return &fileWriter{file: file, perm: perm, stat: stat.Clone()}, nil
}

func (ds *DirectSink) Mkdir(ctx context.Context, key string, stat *data.Stat) error {
	full, err := ds.resolve(key)
	if err != nil {
		return err
	}

	mode := ds.dirMode
	if stat != nil && stat.Mode.Perm() != 0 {
		mode = stat.Mode.Perm()
	}

	if err := os.MkdirAll(full, mode.FS()); err != nil {
		return err
	}

	return applyTimes(full, stat)
}

func (ds *DirectSink) Get(ctx context.Context, key string) (*sink.Object, error) {
	full, err := ds.resolve(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, key)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", data.ErrIsDirectory, key)
	}

	buf, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}

	k, _ := sink.CleanKey(key)
	return sink.NewObject(k, k, buf, data.StatFromFileInfo(info)), nil
}

// Keys walks the root directory and returns all file keys in lexical order.
func (ds *DirectSink) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(ds.path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(ds.path, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

func (ds *DirectSink) resolve(key string) (string, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return "", err
	}

	return filepath.Join(ds.path, filepath.FromSlash(key)), nil
}

// fileWriter applies permissions and times from the stat snapshot once
// the file is closed.
type fileWriter struct {
	file *os.File
	perm fs.FileMode
	stat *data.Stat
}

func (fw *fileWriter) Write(p []byte) (int, error) {
	return fw.file.Write(p)
}

func (fw *fileWriter) Close() error {
	if err := fw.file.Close(); err != nil {
		return err
	}

	// OpenFile only applies the mode on creation and honours the umask
	if err := os.Chmod(fw.file.Name(), fw.perm); err != nil {
		return err
	}

	return applyTimes(fw.file.Name(), fw.stat)
}

// Abort closes and removes the partially written file.
func (fw *fileWriter) Abort() error {
	return errors.Join(fw.file.Close(), os.Remove(fw.file.Name()))
}

func applyTimes(path string, stat *data.Stat) error {
	if stat == nil || stat.ModifyTime.IsZero() {
		return nil
	}

	atime := stat.AccessTime
	if atime.IsZero() {
		atime = stat.ModifyTime
	}

	return os.Chtimes(path, atime, stat.ModifyTime)
}
