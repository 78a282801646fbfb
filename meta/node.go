package meta

import (
	"strings"
)

// ValidateName checks one node path segment. A name must be non-empty, must
// not contain "/", must not consist solely of periods, and must not start
// with "__" (reserved for internal use).
func ValidateName(name string) error {
	if name == "" {
		return metaErrf("node name is empty")
	}
	if strings.Contains(name, "/") {
		return metaErrf("node name %q contains a slash", name)
	}
	if strings.Trim(name, ".") == "" {
		return metaErrf("node name %q consists only of periods", name)
	}
	if strings.HasPrefix(name, "__") {
		return metaErrf("node name %q starts with the reserved prefix __", name)
	}
	return nil
}

// ValidatePath checks a "/"-joined node path. The empty path names the
// hierarchy root. Paths are relative to the store root, with no leading or
// trailing slash.
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return metaErrf("node path %q must not have a leading or trailing slash", path)
	}
	for _, seg := range strings.Split(path, "/") {
		if err := ValidateName(seg); err != nil {
			return err
		}
	}
	return nil
}

// DocumentKey returns the store key of a node's metadata document.
func DocumentKey(path string) string {
	if path == "" {
		return DocumentName
	}
	return path + "/" + DocumentName
}
