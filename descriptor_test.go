package vinyl_test

import (
	"strings"
	"testing"

	"github.com/mwantia/vinyl"
	"github.com/mwantia/vinyl/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMap(t *testing.T) {
	f, err := vinyl.FromMap(map[string]any{
		"path":     "/a/b/c.txt",
		"base":     "/a",
		"cwd":      "/",
		"contents": []byte("abc"),
		"stat":     data.NewFileStat("c.txt", 3, 0644),
		"lang":     "en",
	})
	require.NoError(t, err)

	rel, err := f.Relative()
	require.NoError(t, err)
	assert.Equal(t, "b/c.txt", rel)
	assert.Equal(t, "/", f.Cwd())
	assert.True(t, f.IsBuffer())
	assert.Equal(t, int64(3), f.Stat().Size)

	lang, ok := f.Attr("lang")
	assert.True(t, ok)
	assert.Equal(t, "en", lang)
}

func TestFromMap_Empty(t *testing.T) {
	f, err := vinyl.FromMap(nil)
	require.NoError(t, err)

	assert.True(t, f.IsNull())
	assert.Equal(t, f.Cwd(), f.Base())
}

func TestFromMap_History(t *testing.T) {
	f, err := vinyl.FromMap(map[string]any{
		"history": []any{"/a.txt", "/b.txt"},
		"path":    "/b.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/a.txt", "/b.txt"}, f.History())
}

func TestFromMap_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected error
	}{
		{"non-string path", map[string]any{"path": 42}, vinyl.ErrInvalidPathType},
		{"invalid contents", map[string]any{"contents": 42}, vinyl.ErrInvalidContentType},
		{"plain object contents", map[string]any{"contents": map[string]any{}}, vinyl.ErrInvalidContentType},
		{"relative", map[string]any{"relative": "x"}, vinyl.ErrImmutableDerivedField},
		{"invalid stat", map[string]any{"stat": "dir"}, vinyl.ErrInvalidDescriptor},
		{"invalid cwd", map[string]any{"cwd": 1}, vinyl.ErrInvalidDescriptor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vinyl.FromMap(tt.input)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestFromMap_StatFromFileInfo(t *testing.T) {
	info := data.NewDirectoryStat("assets", 0755).Info()

	f, err := vinyl.FromMap(map[string]any{"stat": info})
	require.NoError(t, err)

	assert.True(t, f.IsDirectory())
}

func TestSetGet(t *testing.T) {
	f := newFile(t, vinyl.WithCwd("/w"))

	require.NoError(t, f.Set("path", "/w/a.md"))
	require.NoError(t, f.Set("base", "/w"))
	require.NoError(t, f.Set("contents", strings.NewReader("# a")))
	require.NoError(t, f.Set("stat", data.NewFileStat("a.md", 3, 0644)))
	require.NoError(t, f.Set("title", "A"))

	assert.ErrorIs(t, f.Set("path", 7), vinyl.ErrInvalidPathType)
	assert.ErrorIs(t, f.Set("contents", 7), vinyl.ErrInvalidContentType)
	assert.ErrorIs(t, f.Set("relative", "x"), vinyl.ErrImmutableDerivedField)
	assert.ErrorIs(t, f.Set("history", []string{}), vinyl.ErrInvalidDescriptor)
	assert.ErrorIs(t, f.Set("cwd", 1), vinyl.ErrInvalidDescriptor)

	rel, err := f.Get("relative")
	require.NoError(t, err)
	assert.Equal(t, "a.md", rel)

	title, err := f.Get("title")
	require.NoError(t, err)
	assert.Equal(t, "A", title)

	missing, err := f.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	p, err := f.Get("path")
	require.NoError(t, err)
	assert.Equal(t, "/w/a.md", p)
	assert.True(t, f.IsStream())
}
