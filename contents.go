package vinyl

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
)

// ContentKind identifies which representation a File currently holds.
type ContentKind int

// Content kinds. Exactly one applies to a File at any time.
const (
	ContentsNull   ContentKind = iota // No contents (never read, or directory)
	ContentsBuffer                    // In-memory byte buffer
	ContentsStream                    // Live byte stream
)

func (k ContentKind) String() string {
	switch k {
	case ContentsNull:
		return "null"
	case ContentsBuffer:
		return "buffer"
	case ContentsStream:
		return "stream"
	default:
		return "unknown"
	}
}

// contents is the tagged union stored on a File. Only the field matching
// kind is meaningful.
type contents struct {
	kind   ContentKind
	buffer []byte
	stream io.Reader
}

// Classify reports which content kind v would be stored as.
// A nil value, including a typed nil pointer or nil slice, is ContentsNull.
// []byte and *bytes.Buffer are buffers; any other io.Reader is a stream.
func Classify(v any) (ContentKind, error) {
	if isNil(v) {
		return ContentsNull, nil
	}

	switch v.(type) {
	case []byte, *bytes.Buffer:
		return ContentsBuffer, nil
	case io.Reader:
		return ContentsStream, nil
	}

	return ContentsNull, fmt.Errorf("%w: got %T", ErrInvalidContentType, v)
}

// newContents converts v into the tagged union, applying the same rules as
// Classify. It is the only place a contents value is built from an
// arbitrary input.
func newContents(v any) (contents, error) {
	kind, err := Classify(v)
	if err != nil {
		return contents{}, err
	}

	switch kind {
	case ContentsBuffer:
		if buf, ok := v.(*bytes.Buffer); ok {
			return contents{kind: ContentsBuffer, buffer: buf.Bytes()}, nil
		}
		return contents{kind: ContentsBuffer, buffer: v.([]byte)}, nil
	case ContentsStream:
		return contents{kind: ContentsStream, stream: v.(io.Reader)}, nil
	default:
		return contents{kind: ContentsNull}, nil
	}
}

// value returns the payload as stored, or nil for ContentsNull.
func (c contents) value() any {
	switch c.kind {
	case ContentsBuffer:
		return c.buffer
	case ContentsStream:
		return c.stream
	default:
		return nil
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}

	return false
}
