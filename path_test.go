package vinyl_test

import (
	"testing"

	"github.com/mwantia/vinyl"
	"github.com/mwantia/vinyl/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPath_History(t *testing.T) {
	f := newFile(t, vinyl.WithPath("/a/one.txt"))

	f.SetPath("/a/one.txt")
	assert.Len(t, f.History(), 1)

	f.SetPath("/a/two.txt")
	assert.Len(t, f.History(), 2)
	assert.Equal(t, "/a/two.txt", f.Path())

	f.SetPath("")
	assert.Len(t, f.History(), 2)

	f.SetPath("/a/one.txt")
	assert.Equal(t, []string{"/a/one.txt", "/a/two.txt", "/a/one.txt"}, f.History())
}

func TestSetPath_EmptyHistory(t *testing.T) {
	f := newFile(t)

	f.SetPath("")
	assert.Empty(t, f.History())
	assert.Empty(t, f.Path())
}

func TestHistory_ReturnsCopy(t *testing.T) {
	f := newFile(t, vinyl.WithPath("/a.txt"))

	h := f.History()
	h[0] = "/b.txt"

	assert.Equal(t, "/a.txt", f.Path())
}

func TestRelative(t *testing.T) {
	f := newFile(t, vinyl.WithPath("/a/b/c.txt"), vinyl.WithBase("/a"))

	rel, err := f.Relative()
	require.NoError(t, err)
	assert.Equal(t, "b/c.txt", rel)
}

func TestRelative_ResolvesAgainstCwd(t *testing.T) {
	f := newFile(t, vinyl.WithCwd("/work"), vinyl.WithBase("src"), vinyl.WithPath("src/lib/x.go"))

	rel, err := f.Relative()
	require.NoError(t, err)
	assert.Equal(t, "lib/x.go", rel)
}

func TestRelative_Errors(t *testing.T) {
	f := newFile(t)

	_, err := f.Relative()
	assert.ErrorIs(t, err, vinyl.ErrMissingPath)

	f.SetPath("/a/b.txt")
	f.SetBase("")
	_, err = f.Relative()
	assert.ErrorIs(t, err, vinyl.ErrMissingBase)
}

func TestSetRelative_AlwaysFails(t *testing.T) {
	f := newFile(t, vinyl.WithPath("/a/b.txt"), vinyl.WithBase("/a"))

	for _, v := range []string{"", "b.txt", "other"} {
		assert.ErrorIs(t, f.SetRelative(v), vinyl.ErrImmutableDerivedField)
	}
	assert.ErrorIs(t, f.Set("relative", 42), vinyl.ErrImmutableDerivedField)
	assert.Equal(t, "/a/b.txt", f.Path())
}

func TestPathHelpers(t *testing.T) {
	f := newFile(t, vinyl.WithPath("/site/pages/index.html"))

	assert.Equal(t, "index.html", f.Basename())
	assert.Equal(t, "/site/pages", f.Dirname())
	assert.Equal(t, ".html", f.Extname())
	assert.Equal(t, "index", f.Stem())
	assert.Equal(t, data.ContentTypeTextHTML, f.ContentType())

	empty := newFile(t)
	assert.Empty(t, empty.Basename())
	assert.Empty(t, empty.Dirname())
	assert.Equal(t, data.ContentTypeApplicationStream, empty.ContentType())
}
