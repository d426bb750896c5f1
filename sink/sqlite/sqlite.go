package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteSink stores objects as rows of a single table, keyed by their
// relative path. Writing an existing key replaces the row.
type SQLiteSink struct {
	mu sync.RWMutex
	db *sql.DB

	maxSize int64
	log     *log.Logger
}

type Option func(*SQLiteSink)

func WithMaxObjectSize(size int64) Option {
	return func(ss *SQLiteSink) {
		ss.maxSize = size
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(ss *SQLiteSink) {
		ss.log = logger.Named("sqlite")
	}
}

// NewSQLiteSink creates a new SQLite-backed sink.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewSQLiteSink(dbPath string, opts ...Option) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, err
		}
	}

	ss := &SQLiteSink{
		db:  db,
		log: log.Nop(),
	}

	for _, opt := range opts {
		opt(ss)
	}

	if err := ss.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return ss, nil
}

// initSchema creates the database schema.
func (ss *SQLiteSink) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS vinyl_objects (
		key TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		content_type TEXT,
		mode INTEGER NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		data BLOB NOT NULL,
		modify_time INTEGER NOT NULL
	);
	`

	_, err := ss.db.Exec(schema)
	return err
}

// Name returns the identifier name defined for this sink
func (*SQLiteSink) Name() string {
	return "sqlite"
}

// Open is part of the lifecycle behaviour and verifies the database is reachable.
func (ss *SQLiteSink) Open(ctx context.Context) error {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	if err := ss.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", data.ErrSinkUnavailable, err)
	}

	return nil
}

// Close is part of the lifecycle behaviour and closes the database.
func (ss *SQLiteSink) Close(ctx context.Context) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	return ss.db.Close()
}

// Capabilities returns a list of capabilities supported by this sink.
func (ss *SQLiteSink) Capabilities() *sink.Capabilities {
	return &sink.Capabilities{
		Capabilities: []sink.Capability{
			sink.CapabilityStat,
			sink.CapabilityContentType,
			sink.CapabilityRead,
		},
		MaxObjectSize: ss.maxSize,
	}
}

func (ss *SQLiteSink) Writer(ctx context.Context, key string, stat *data.Stat) (io.WriteCloser, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	stat = stat.Clone()
	return sink.NewBufferedWriter(ss.maxSize, func(buf []byte) error {
		return ss.store(ctx, key, buf, stat)
	}), nil
}

func (ss *SQLiteSink) store(ctx context.Context, key string, buf []byte, stat *data.Stat) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	obj := sink.NewObject(uuid.Must(uuid.NewV7()).String(), key, buf, stat)

	_, err := ss.db.ExecContext(ctx, `
		INSERT INTO vinyl_objects (key, id, content_type, mode, size, data, modify_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			id = excluded.id,
			content_type = excluded.content_type,
			mode = excluded.mode,
			size = excluded.size,
			data = excluded.data,
			modify_time = excluded.modify_time
	`, obj.Key, obj.ID, nullString(string(obj.ContentType)), int64(obj.Mode), obj.Size, obj.Data, obj.ModifyTime.UnixNano())
	if err != nil {
		return err
	}

	ss.log.Debug("stored '%s' (%d bytes)", key, obj.Size)
	return nil
}

func (ss *SQLiteSink) Get(ctx context.Context, key string) (*sink.Object, error) {
	key, err := sink.CleanKey(key)
	if err != nil {
		return nil, err
	}

	ss.mu.RLock()
	defer ss.mu.RUnlock()

	var obj sink.Object
	var contentType sql.NullString
	var mode, modifyTime int64

	err = ss.db.QueryRowContext(ctx, `
		SELECT key, id, content_type, mode, size, data, modify_time
		FROM vinyl_objects WHERE key = ?
	`, key).Scan(&obj.Key, &obj.ID, &contentType, &mode, &obj.Size, &obj.Data, &modifyTime)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", data.ErrNotExist, key)
	}
	if err != nil {
		return nil, err
	}

	obj.Mode = data.FileMode(mode)
	obj.ModifyTime = time.Unix(0, modifyTime)
	if contentType.Valid {
		obj.ContentType = data.ContentType(contentType.String)
	}

	return &obj, nil
}

func (ss *SQLiteSink) Keys(ctx context.Context) ([]string, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	rows, err := ss.db.QueryContext(ctx, `SELECT key FROM vinyl_objects ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
