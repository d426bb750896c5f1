package data

import "io/fs"

// FileMode represents file type and permission bits of a stat snapshot.
// The bit layout is identical to io/fs.FileMode so values convert with a
// plain cast in both directions.
type FileMode uint32

// File mode constants for type and permission bits.
const (
	// Type bits
	ModeDir        = FileMode(fs.ModeDir)        // d: directory
	ModeAppend     = FileMode(fs.ModeAppend)     // a: append-only
	ModeExclusive  = FileMode(fs.ModeExclusive)  // l: exclusive use
	ModeTemporary  = FileMode(fs.ModeTemporary)  // T: temporary file
	ModeSymlink    = FileMode(fs.ModeSymlink)    // L: symbolic link
	ModeDevice     = FileMode(fs.ModeDevice)     // D: device file
	ModeNamedPipe  = FileMode(fs.ModeNamedPipe)  // p: named pipe (FIFO)
	ModeSocket     = FileMode(fs.ModeSocket)     // S: Unix domain socket
	ModeSetuid     = FileMode(fs.ModeSetuid)     // u: setuid
	ModeSetgid     = FileMode(fs.ModeSetgid)     // g: setgid
	ModeCharDevice = FileMode(fs.ModeCharDevice) // c: Unix character device
	ModeSticky     = FileMode(fs.ModeSticky)     // t: sticky
	ModeIrregular  = FileMode(fs.ModeIrregular)  // ?: non-regular file

	ModeType = ModeDir | ModeSymlink | ModeNamedPipe | ModeSocket | ModeDevice | ModeCharDevice | ModeIrregular

	// Permission bits
	ModePerm FileMode = 0777
)

// IsDir reports whether m describes a directory.
func (m FileMode) IsDir() bool {
	return m&ModeDir != 0
}

// IsSymlink reports whether m describes a symbolic link.
func (m FileMode) IsSymlink() bool {
	return m&ModeSymlink != 0
}

// IsRegular reports whether m describes a regular file.
// A regular file has no type bits set (not directory, symlink, device, etc.).
func (m FileMode) IsRegular() bool {
	return m&ModeType == 0
}

// Perm returns the Unix permission bits in m (the lower 9 bits).
func (m FileMode) Perm() FileMode {
	return m & ModePerm
}

// FS returns m as an io/fs.FileMode.
func (m FileMode) FS() fs.FileMode {
	return fs.FileMode(m)
}

// String returns a textual representation of the mode in Unix ls -l format.
// Example: "drwxr-xr-x" for a directory with 755 permissions.
func (m FileMode) String() string {
	const str = "dalTLDpSugct?"
	var buf [32]byte
	w := 0

	// Type bits
	for i, c := range str {
		if m&(1<<uint(32-1-i)) != 0 {
			buf[w] = byte(c)
			w++
		}
	}

	if w == 0 {
		buf[w] = '-'
		w++
	}

	// Permission bits
	const rwx = "rwxrwxrwx"
	for i, c := range rwx {
		if m&(1<<uint(9-1-i)) != 0 {
			buf[w] = byte(c)
		} else {
			buf[w] = '-'
		}
		w++
	}

	return string(buf[:w])
}
