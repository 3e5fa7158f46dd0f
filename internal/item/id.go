package item

import (
	"fmt"
	"strings"
)

// DefaultNamespace is used when an identifier has no namespace.
const DefaultNamespace = "minecraft"

// ID is a namespaced resource identifier such as "minecraft:iron_ingot".
type ID struct {
	Namespace string
	Path      string
}

// AirID names the empty item.
var AirID = ID{Namespace: DefaultNamespace, Path: "air"}

// ParseID parses "namespace:path" or "path" (default namespace).
//
// Namespaces may contain [a-z0-9_.-]; paths may additionally contain '/'.
func ParseID(s string) (ID, error) {
	ns, path, found := strings.Cut(s, ":")
	if !found {
		ns, path = DefaultNamespace, s
	}
	if ns == "" {
		ns = DefaultNamespace
	}
	if path == "" {
		return ID{}, fmt.Errorf("invalid resource location %q: empty path", s)
	}
	for _, r := range ns {
		if !validNamespaceRune(r) {
			return ID{}, fmt.Errorf("invalid resource location %q: non [a-z0-9_.-] character in namespace", s)
		}
	}
	for _, r := range path {
		if !validPathRune(r) {
			return ID{}, fmt.Errorf("invalid resource location %q: non [a-z0-9/._-] character in path", s)
		}
	}
	return ID{Namespace: ns, Path: path}, nil
}

// MustParseID is like ParseID but panics on error.
// Use only in tests or for compile-time constants.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func validNamespaceRune(r rune) bool {
	return r == '_' || r == '-' || r == '.' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func validPathRune(r rune) bool {
	return validNamespaceRune(r) || r == '/'
}

// String returns the "namespace:path" form.
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.Namespace + ":" + id.Path
}

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool {
	return id.Namespace == "" && id.Path == ""
}

// Compare orders identifiers by namespace, then path.
func (id ID) Compare(other ID) int {
	if c := strings.Compare(id.Namespace, other.Namespace); c != 0 {
		return c
	}
	return strings.Compare(id.Path, other.Path)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
