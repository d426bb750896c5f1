package memory

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
	"github.com/tidwall/btree"
)

// MemorySink keeps written objects in an ordered in-memory map.
// It is mostly useful for tests and for collecting pipeline output.
type MemorySink struct {
	mu sync.RWMutex

	objects     *btree.Map[string, *sink.Object]
	directories *btree.Map[string, *data.Stat]
	maxSize     int64
	closed      bool

	log *log.Logger
}

type Option func(*MemorySink)

// WithMaxObjectSize limits the size of a single object.
func WithMaxObjectSize(size int64) Option {
	return func(ms *MemorySink) {
		ms.maxSize = size
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(ms *MemorySink) {
		ms.log = logger.Named("memory")
	}
}

func NewMemorySink(opts ...Option) *MemorySink {
	ms := &MemorySink{
		objects:     btree.NewMap[string, *sink.Object](0),
		directories: btree.NewMap[string, *data.Stat](0),
		log:         log.Nop(),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// Name returns the identifier name defined for this sink
func (*MemorySink) Name() string {
	return "memory"
}

// Open is part of the lifecycle behaviour and gets called before the first write.
func (ms *MemorySink) Open(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.closed = false
	return nil
}

// Close is part of the lifecycle behaviour and drops all stored objects.
func (ms *MemorySink) Close(ctx context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.objects.Clear()
	ms.directories.Clear()
	ms.closed = true

	return nil
}

// Capabilities returns a list of capabilities supported by this sink.
func (ms *MemorySink) Capabilities() *sink.Capabilities {
	return &sink.Capabilities{
		Capabilities: []sink.Capability{
			sink.CapabilityDirectories,
			sink.CapabilityStat,
			sink.CapabilityContentType,
			sink.CapabilityRead,
		},
		MaxObjectSize: ms.maxSize,
	}
}

func (ms *MemorySink) Writer(ctx context.Context, key string, stat *data.Stat) (io.WriteCloser, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.closed {
		return nil, data.ErrSinkClosed
	}
	if _, exists := ms.directories.Get(key); exists {
		return nil, fmt.Errorf("%w: %s", data.ErrIsDirectory, key)
	}

	snapshot := stat.Clone()
	return sink.NewBufferedWriter(ms.maxSize, func(buf []byte) error {
		return ms.store(key, slices.Clone(buf), snapshot)
	}), nil
}

func (ms *MemorySink) Mkdir(ctx context.Context, key string, stat *data.Stat) error {
	key, err := sink.CleanKey(key)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.closed {
		return data.ErrSinkClosed
	}
	if _, exists := ms.objects.Get(key); exists {
		return fmt.Errorf("%w: %s", data.ErrNotDirectory, key)
	}

	if stat == nil {
		stat = data.NewDirectoryStat(key, 0755)
	}
	ms.directories.Set(key, stat.Clone())

	return nil
}

func (ms *MemorySink) Get(ctx context.Context, key string) (*sink.Object, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	obj, exists := ms.objects.Get(key)
	if !exists {
		return nil, fmt.Errorf("%w: %s", data.ErrNotExist, key)
	}

	return obj, nil
}

// Keys returns all object keys in lexical order.
func (ms *MemorySink) Keys(ctx context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]string, 0, ms.objects.Len())
	ms.objects.Scan(func(key string, _ *sink.Object) bool {
		keys = append(keys, key)
		return true
	})

	return keys, nil
}

// Directories returns all directory keys in lexical order.
func (ms *MemorySink) Directories() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]string, 0, ms.directories.Len())
	ms.directories.Scan(func(key string, _ *data.Stat) bool {
		keys = append(keys, key)
		return true
	})

	return keys
}

func (ms *MemorySink) store(key string, buf []byte, stat *data.Stat) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.closed {
		return data.ErrSinkClosed
	}

	obj := sink.NewObject(uuid.Must(uuid.NewV7()).String(), key, buf, stat)
	ms.objects.Set(key, obj)
	ms.log.Debug("stored '%s' (%d bytes)", key, obj.Size)

	return nil
}
