package sqlite

import (
	"strings"
	"testing"
	"time"

	"github.com/mwantia/vinyl"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSink(t *testing.T, opts ...Option) *SQLiteSink {
	t.Helper()

	ss, err := NewSQLiteSink(":memory:", opts...)
	require.NoError(t, err)
	require.NoError(t, ss.Open(t.Context()))

	t.Cleanup(func() {
		ss.Close(t.Context())
	})
	return ss
}

func TestSQLiteSink_DestAndGet(t *testing.T) {
	ss := newSink(t)

	modTime := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	stat := data.NewFileStat("app.js", 0, 0640)
	stat.ModifyTime = modTime

	f, err := vinyl.New(
		vinyl.WithBase("/src"),
		vinyl.WithPath("/src/js/app.js"),
		vinyl.WithStream(strings.NewReader("console.log(1)")),
		vinyl.WithStat(stat),
	)
	require.NoError(t, err)

	key, err := sink.Dest(t.Context(), ss, f)
	require.NoError(t, err)
	assert.Equal(t, "js/app.js", key)

	obj, err := ss.Get(t.Context(), key)
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(obj.Data))
	assert.Equal(t, int64(14), obj.Size)
	assert.Equal(t, data.FileMode(0640), obj.Mode)
	assert.Equal(t, data.ContentTypeTextJavaScript, obj.ContentType)
	assert.True(t, obj.ModifyTime.Equal(modTime))
	assert.NotEmpty(t, obj.ID)
}

func TestSQLiteSink_Overwrite(t *testing.T) {
	ss := newSink(t)

	for _, content := range []string{"first", "second"} {
		w, err := ss.Writer(t.Context(), "a.txt", nil)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	obj, err := ss.Get(t.Context(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", string(obj.Data))

	keys, err := ss.Keys(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, keys)
}

func TestSQLiteSink_Keys(t *testing.T) {
	ss := newSink(t)

	for _, key := range []string{"z.txt", "a/b.txt", "m.txt"} {
		w, err := ss.Writer(t.Context(), key, nil)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	keys, err := ss.Keys(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b.txt", "m.txt", "z.txt"}, keys)
}

func TestSQLiteSink_NotExist(t *testing.T) {
	ss := newSink(t)

	_, err := ss.Get(t.Context(), "missing")
	assert.ErrorIs(t, err, data.ErrNotExist)
}

func TestSQLiteSink_MaxObjectSize(t *testing.T) {
	ss := newSink(t, WithMaxObjectSize(4))

	f, err := vinyl.New(
		vinyl.WithBase("/src"),
		vinyl.WithPath("/src/big.bin"),
		vinyl.WithBuffer([]byte("too large")),
	)
	require.NoError(t, err)

	_, err = sink.Dest(t.Context(), ss, f)
	assert.ErrorIs(t, err, data.ErrTooLarge)

	keys, err := ss.Keys(t.Context())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

var _ sink.Sink = (*SQLiteSink)(nil)
var _ sink.ObjectReader = (*SQLiteSink)(nil)
