package data

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/huandu/go-clone"
)

// Stat is a point-in-time snapshot of filesystem metadata attached to a
// virtual file. It is never refreshed from disk by itself.
type Stat struct {
	// Base name of the file the snapshot was taken from
	Name string `json:"name"`

	// Unix-style mode and permissions
	Mode FileMode `json:"mode"`

	// Size in bytes (0 for directories)
	Size int64 `json:"size"`

	// Ownership, zero when the source did not report it
	UID int64 `json:"uid"`
	GID int64 `json:"gid"`

	ModifyTime time.Time `json:"modify_time"`
	AccessTime time.Time `json:"access_time"`
	ChangeTime time.Time `json:"change_time"`
	CreateTime time.Time `json:"create_time"`

	// Content MIME type, if known
	ContentType ContentType `json:"content_type"`

	ETag string `json:"etag"`

	// Underlying data source as reported by fs.FileInfo.Sys
	Sys any `json:"-"`
}

// NewFileStat creates a snapshot for a regular file.
func NewFileStat(name string, size int64, mode FileMode) *Stat {
	now := time.Now()

	return &Stat{
		Name:        name,
		Mode:        mode &^ ModeType,
		Size:        size,
		ModifyTime:  now,
		AccessTime:  now,
		ChangeTime:  now,
		CreateTime:  now,
		ContentType: GetMIMEType(name),
	}
}

// NewDirectoryStat creates a snapshot for a directory.
func NewDirectoryStat(name string, mode FileMode) *Stat {
	now := time.Now()

	return &Stat{
		Name:       name,
		Mode:       mode | ModeDir,
		ModifyTime: now,
		AccessTime: now,
		ChangeTime: now,
		CreateTime: now,
	}
}

// StatFromFileInfo captures an fs.FileInfo as a snapshot.
// Times the FileInfo cannot report are set to its ModTime.
func StatFromFileInfo(fi fs.FileInfo) *Stat {
	if fi == nil {
		return nil
	}

	mod := fi.ModTime()
	stat := &Stat{
		Name:       fi.Name(),
		Mode:       FileMode(fi.Mode()),
		Size:       fi.Size(),
		ModifyTime: mod,
		AccessTime: mod,
		ChangeTime: mod,
		CreateTime: mod,
		Sys:        fi.Sys(),
	}

	if !stat.Mode.IsDir() {
		stat.ContentType = GetMIMEType(stat.Name)
	}

	return stat
}

// IsDirectory reports whether the snapshot describes a directory.
func (s *Stat) IsDirectory() bool {
	return s.Mode.IsDir()
}

// IsFile reports whether the snapshot describes a regular file.
func (s *Stat) IsFile() bool {
	return s.Mode.IsRegular()
}

// IsSymlink reports whether the snapshot describes a symbolic link.
func (s *Stat) IsSymlink() bool {
	return s.Mode.IsSymlink()
}

// Clone returns an independent copy of the snapshot. Sys is deep-copied
// so platform structures are not shared either.
func (s *Stat) Clone() *Stat {
	if s == nil {
		return nil
	}

	c := *s
	if s.Sys != nil {
		c.Sys = clone.Slowly(s.Sys)
	}

	return &c
}

// Info exposes the snapshot as an fs.FileInfo.
func (s *Stat) Info() fs.FileInfo {
	return statInfo{stat: s}
}

type statInfo struct {
	stat *Stat
}

func (si statInfo) Name() string       { return filepath.Base(si.stat.Name) }
func (si statInfo) Size() int64        { return si.stat.Size }
func (si statInfo) Mode() fs.FileMode  { return si.stat.Mode.FS() }
func (si statInfo) ModTime() time.Time { return si.stat.ModifyTime }
func (si statInfo) IsDir() bool        { return si.stat.Mode.IsDir() }
func (si statInfo) Sys() any           { return si.stat.Sys }
