package consul

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/consul/api"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
)

// Consul KV rejects values larger than 512KB.
const MaxValueSize = 512 * 1024

// ConsulSink writes objects into the Consul KV store.
//
// Each object is stored as a single KV entry below the configured prefix.
// The file mode is kept in the entry flags. Directories are implied by
// their children and never written.
type ConsulSink struct {
	mu     sync.RWMutex
	client *api.Client
	kv     *api.KV

	config *ConsulSinkConfig
	log    *log.Logger
}

// ConsulSinkConfig contains configuration options for the Consul sink
type ConsulSinkConfig struct {
	// Address of the Consul server (default: "127.0.0.1:8500")
	Address string

	// Token for Consul ACL authentication (optional)
	Token string

	// Datacenter to use (optional)
	Datacenter string

	// Namespace for Consul Enterprise (optional)
	Namespace string

	// Prefix for all keys in Consul KV (default: "/")
	Prefix string

	// Logger used for debug output (optional)
	Logger *log.Logger
}

// NewConsulSink creates a new Consul-backed sink
func NewConsulSink(config *ConsulSinkConfig) (*ConsulSink, error) {
	if config == nil {
		config = &ConsulSinkConfig{}
	}

	if config.Address == "" {
		config.Address = "127.0.0.1:8500"
	}

	if config.Prefix == "" {
		config.Prefix = "/"
	}

	clientConfig := api.DefaultConfig()
	clientConfig.Address = config.Address
	if config.Token != "" {
		clientConfig.Token = config.Token
	}
	if config.Datacenter != "" {
		clientConfig.Datacenter = config.Datacenter
	}
	if config.Namespace != "" {
		clientConfig.Namespace = config.Namespace
	}

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, err
	}

	logger := log.Nop()
	if config.Logger != nil {
		logger = config.Logger.Named("consul")
	}

	return &ConsulSink{
		client: client,
		kv:     client.KV(),
		config: config,
		log:    logger,
	}, nil
}

// Name returns the identifier name defined for this sink
func (*ConsulSink) Name() string {
	return "consul"
}

// Open is part of the lifecycle behaviour and checks that a leader is known.
func (cs *ConsulSink) Open(ctx context.Context) error {
	leader, err := cs.client.Status().LeaderWithQueryOptions((&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", data.ErrSinkUnavailable, err)
	}
	if leader == "" {
		return fmt.Errorf("%w: no cluster leader", data.ErrSinkUnavailable)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this sink.
func (cs *ConsulSink) Close(ctx context.Context) error {
	// Nothing to clean up - Consul client is stateless
	return nil
}

// Capabilities returns a list of capabilities supported by this sink
func (cs *ConsulSink) Capabilities() *sink.Capabilities {
	return &sink.Capabilities{
		Capabilities: []sink.Capability{
			sink.CapabilityStat,
			sink.CapabilityRead,
		},
		MaxObjectSize: MaxValueSize,
	}
}

func (cs *ConsulSink) Writer(ctx context.Context, key string, stat *data.Stat) (io.WriteCloser, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	mode := data.FileMode(0644)
	if stat != nil {
		mode = stat.Mode.Perm()
	}

	return sink.NewBufferedWriter(MaxValueSize, func(buf []byte) error {
		cs.mu.Lock()
		defer cs.mu.Unlock()

		pair := &api.KVPair{
			Key:   cs.buildKey(key),
			Flags: uint64(mode),
			Value: buf,
		}
		if _, err := cs.kv.Put(pair, (&api.WriteOptions{}).WithContext(ctx)); err != nil {
			return err
		}

		cs.log.Debug("put '%s' (%d bytes)", pair.Key, len(buf))
		return nil
	}), nil
}

func (cs *ConsulSink) Get(ctx context.Context, key string) (*sink.Object, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	pair, _, err := cs.kv.Get(cs.buildKey(key), (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, fmt.Errorf("%w: %s", data.ErrNotExist, key)
	}

	obj := sink.NewObject(uuid.Must(uuid.NewV7()).String(), key, pair.Value, nil)
	obj.Mode = data.FileMode(pair.Flags)
	obj.ModifyTime = time.Time{}

	return obj, nil
}

func (cs *ConsulSink) Keys(ctx context.Context) ([]string, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	prefix := cs.buildKey("")
	keys, _, err := cs.kv.Keys(prefix, "", (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimPrefix(key, prefix)
		if key == "" || strings.HasSuffix(key, "/") {
			continue
		}
		result = append(result, key)
	}

	return result, nil
}

// buildKey places key below the configured prefix.
func (cs *ConsulSink) buildKey(key string) string {
	key = strings.TrimPrefix(key, "/")

	// "/" means no prefix
	if cs.config.Prefix == "/" {
		return key
	}

	prefix := strings.TrimPrefix(cs.config.Prefix, "/")
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + key
}
