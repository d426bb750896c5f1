package vinyl

import (
	"encoding/hex"
	"io"
	"reflect"
	"strings"
)

// inspectMaxBytes limits the buffer preview of Inspect.
const inspectMaxBytes = 50

// Inspect renders a short human-readable summary of the file for
// debugging, e.g. `<File "b/c.txt" <Buffer 68 69>>`. The format is not
// meant to be parsed.
func (f *File) Inspect() string {
	var parts []string

	// Prefer the relative path if possible
	p := f.Path()
	if f.base != "" && p != "" {
		if rel, err := f.Relative(); err == nil {
			p = rel
		}
	}

	if p != "" {
		parts = append(parts, `"`+p+`"`)
	}

	switch f.contents.kind {
	case ContentsBuffer:
		parts = append(parts, inspectBuffer(f.contents.buffer))
	case ContentsStream:
		parts = append(parts, DescribeStream(f.contents.stream))
	}

	return "<File " + strings.Join(parts, " ") + ">"
}

func (f *File) String() string {
	return f.Inspect()
}

// DescribeStream labels a stream by its concrete type,
// e.g. "<ReaderStream>" for a *bytes.Reader.
func DescribeStream(r io.Reader) string {
	if r == nil {
		return "<Stream>"
	}

	t := reflect.TypeOf(r)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	if name == "Stream" {
		name = ""
	}

	return "<" + name + "Stream>"
}

func inspectBuffer(b []byte) string {
	n := min(len(b), inspectMaxBytes)

	pairs := make([]string, n)
	for i := range n {
		pairs[i] = hex.EncodeToString(b[i : i+1])
	}

	s := strings.Join(pairs, " ")
	if len(b) > inspectMaxBytes {
		s += " ... "
	}

	return "<Buffer " + s + ">"
}
