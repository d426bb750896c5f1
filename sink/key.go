package sink

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/mwantia/vinyl/data"
)

// CleanKey normalizes a relative path into an object key using forward
// slashes. Keys escaping their root or empty keys are rejected.
func CleanKey(key string) (string, error) {
	key = path.Clean(filepath.ToSlash(key))
	key = strings.TrimPrefix(key, "/")

	if key == "" || key == "." {
		return "", fmt.Errorf("%w: empty key", data.ErrInvalidKey)
	}
	if key == ".." || strings.HasPrefix(key, "../") {
		return "", fmt.Errorf("%w: '%s' escapes the sink root", data.ErrInvalidKey, key)
	}

	return key, nil
}
