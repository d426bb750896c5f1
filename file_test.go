package vinyl_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mwantia/vinyl"
	"github.com/mwantia/vinyl/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(t *testing.T, opts ...vinyl.Option) *vinyl.File {
	t.Helper()

	f, err := vinyl.New(opts...)
	require.NoError(t, err)
	return f
}

func TestNew_Defaults(t *testing.T) {
	f := newFile(t)

	assert.NotEmpty(t, f.Cwd())
	assert.Equal(t, f.Cwd(), f.Base())
	assert.Empty(t, f.Path())
	assert.Empty(t, f.History())
	assert.Nil(t, f.Stat())
	assert.True(t, f.IsNull())
	assert.NotEmpty(t, f.ID())
}

func TestNew_Options(t *testing.T) {
	stat := data.NewFileStat("c.txt", 5, 0644)
	f := newFile(t,
		vinyl.WithCwd("/work"),
		vinyl.WithBase("/work/src"),
		vinyl.WithPath("/work/src/c.txt"),
		vinyl.WithStat(stat),
		vinyl.WithBuffer([]byte("hello")),
		vinyl.WithAttribute("sourceMap", "none"),
	)

	assert.Equal(t, "/work", f.Cwd())
	assert.Equal(t, "/work/src", f.Base())
	assert.Equal(t, []string{"/work/src/c.txt"}, f.History())
	assert.Same(t, stat, f.Stat())
	assert.True(t, f.IsBuffer())

	v, ok := f.Attr("sourceMap")
	assert.True(t, ok)
	assert.Equal(t, "none", v)
}

func TestNew_RejectsInvalidContents(t *testing.T) {
	_, err := vinyl.New(vinyl.WithContents(map[string]string{"a": "b"}))
	assert.ErrorIs(t, err, vinyl.ErrInvalidContentType)
}

func TestNew_RejectsReservedAttribute(t *testing.T) {
	_, err := vinyl.New(vinyl.WithAttribute("path", "/x"))
	assert.ErrorIs(t, err, vinyl.ErrInvalidDescriptor)
}

func TestContents_ExactlyOneKind(t *testing.T) {
	tests := []struct {
		name  string
		value any
		kind  vinyl.ContentKind
	}{
		{"buffer", []byte("abc"), vinyl.ContentsBuffer},
		{"empty buffer", []byte{}, vinyl.ContentsBuffer},
		{"bytes.Buffer", bytes.NewBufferString("abc"), vinyl.ContentsBuffer},
		{"stream", strings.NewReader("abc"), vinyl.ContentsStream},
		{"nil", nil, vinyl.ContentsNull},
		{"nil slice", []byte(nil), vinyl.ContentsNull},
		{"typed nil reader", (*bytes.Reader)(nil), vinyl.ContentsNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFile(t)
			require.NoError(t, f.SetContents(tt.value))

			kinds := []bool{f.IsBuffer(), f.IsStream(), f.IsNull()}
			count := 0
			for _, k := range kinds {
				if k {
					count++
				}
			}

			assert.Equal(t, 1, count)
			assert.Equal(t, tt.kind, f.Kind())
		})
	}
}

func TestContents_InvalidLeavesPriorContents(t *testing.T) {
	f := newFile(t, vinyl.WithBuffer([]byte("keep")))

	for _, v := range []any{42, "text", map[string]any{}, struct{}{}} {
		err := f.SetContents(v)
		assert.ErrorIs(t, err, vinyl.ErrInvalidContentType)

		buf, ok := f.Buffer()
		require.True(t, ok)
		assert.Equal(t, []byte("keep"), buf)
	}
}

func TestContents_TypedSetters(t *testing.T) {
	f := newFile(t)

	require.NoError(t, f.SetStream(strings.NewReader("x")))
	_, ok := f.Stream()
	assert.True(t, ok)

	require.NoError(t, f.SetBuffer([]byte("y")))
	assert.True(t, f.IsBuffer())

	f.ClearContents()
	assert.True(t, f.IsNull())
	assert.Nil(t, f.Contents())
}

func TestIsDirectory(t *testing.T) {
	f := newFile(t, vinyl.WithStat(data.NewDirectoryStat("dir", 0755)))
	assert.True(t, f.IsDirectory())

	require.NoError(t, f.SetBuffer([]byte("data")))
	assert.False(t, f.IsDirectory())

	plain := newFile(t)
	assert.False(t, plain.IsDirectory())

	file := newFile(t, vinyl.WithStat(data.NewFileStat("a.txt", 0, 0644)))
	assert.False(t, file.IsDirectory())
}

func TestAttributes(t *testing.T) {
	f := newFile(t)

	require.NoError(t, f.SetAttr("custom", 1))
	assert.ErrorIs(t, f.SetAttr("contents", 1), vinyl.ErrInvalidDescriptor)
	assert.ErrorIs(t, f.SetAttr("", 1), vinyl.ErrInvalidDescriptor)

	attrs := f.Attributes()
	attrs["custom"] = 2
	v, _ := f.Attr("custom")
	assert.Equal(t, 1, v)

	f.DeleteAttr("custom")
	_, ok := f.Attr("custom")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	kind, err := vinyl.Classify(io.NopCloser(strings.NewReader("")))
	require.NoError(t, err)
	assert.Equal(t, vinyl.ContentsStream, kind)
	assert.Equal(t, "stream", kind.String())

	_, err = vinyl.Classify(3.14)
	assert.True(t, errors.Is(err, vinyl.ErrInvalidContentType))
}
