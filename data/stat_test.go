package data

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMode(t *testing.T) {
	dir := ModeDir | 0755
	assert.True(t, dir.IsDir())
	assert.False(t, dir.IsRegular())
	assert.Equal(t, FileMode(0755), dir.Perm())
	assert.Equal(t, "drwxr-xr-x", dir.String())
	assert.Equal(t, fs.ModeDir|0755, dir.FS())

	file := FileMode(0644)
	assert.True(t, file.IsRegular())
	assert.Equal(t, "-rw-r--r--", file.String())

	link := ModeSymlink | 0777
	assert.True(t, link.IsSymlink())
	assert.Equal(t, fs.FileMode(link).String(), link.String())
}

func TestNewFileStat(t *testing.T) {
	stat := NewFileStat("index.html", 12, ModeDir|0644)

	assert.False(t, stat.IsDirectory())
	assert.True(t, stat.IsFile())
	assert.Equal(t, ContentTypeTextHTML, stat.ContentType)
	assert.Equal(t, int64(12), stat.Size)
}

func TestStatFromFileInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# notes"), 0600))

	fi, err := os.Stat(path)
	require.NoError(t, err)

	stat := StatFromFileInfo(fi)
	assert.Equal(t, "notes.md", stat.Name)
	assert.Equal(t, int64(7), stat.Size)
	assert.Equal(t, FileMode(0600), stat.Mode.Perm())
	assert.Equal(t, ContentTypeTextMarkdown, stat.ContentType)
	assert.Equal(t, fi.ModTime(), stat.ModifyTime)

	di, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, StatFromFileInfo(di).IsDirectory())

	assert.Nil(t, StatFromFileInfo(nil))
}

func TestStatClone(t *testing.T) {
	type sys struct {
		Ino   uint64
		Links []int
	}

	stat := NewFileStat("a.txt", 1, 0644)
	stat.Sys = &sys{Ino: 9, Links: []int{1}}

	c := stat.Clone()
	require.NotNil(t, c)
	assert.NotSame(t, stat, c)
	assert.Equal(t, stat.ModifyTime, c.ModifyTime)

	cs := c.Sys.(*sys)
	cs.Links[0] = 2
	assert.Equal(t, 1, stat.Sys.(*sys).Links[0])

	var empty *Stat
	assert.Nil(t, empty.Clone())
}

func TestStatInfo(t *testing.T) {
	stat := NewDirectoryStat("/srv/assets", 0700)
	info := stat.Info()

	assert.Equal(t, "assets", info.Name())
	assert.True(t, info.IsDir())
	assert.Equal(t, fs.ModeDir|0700, info.Mode())
}

func TestGetMIMEType(t *testing.T) {
	assert.Equal(t, ContentTypeImagePNG, GetMIMEType("/img/LOGO.PNG"))
	assert.Equal(t, ContentTypeApplicationStream, GetMIMEType("Makefile"))
	assert.True(t, ContentTypeApplicationJson.IsText())
	assert.True(t, ContentTypeTextCSS.IsText())
	assert.False(t, ContentTypeImagePNG.IsText())
}

func TestErrors(t *testing.T) {
	var errs Errors
	assert.NoError(t, errs.Errors())

	errs.Add(nil)
	errs.Add(ErrNotExist)
	errs.Add(ErrTooLarge)

	assert.Equal(t, 2, errs.Len())
	assert.ErrorIs(t, errs.Errors(), ErrNotExist)
	assert.ErrorIs(t, errs.Errors(), ErrTooLarge)
}
