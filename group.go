package zarrgo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/zarrgo/meta"
	"github.com/hupe1980/zarrgo/store"
)

// Group is a hierarchy node holding attributes and child nodes. Children
// are not embedded in the document; they are discovered by listing the
// store under the group's path.
type Group struct {
	meta  *meta.Group
	store store.Store
	path  string
}

// CreateGroup writes the group's metadata document at the node path.
func CreateGroup(ctx context.Context, s store.Store, path string, g *meta.Group) (*Group, error) {
	if err := meta.ValidatePath(path); err != nil {
		return nil, err
	}
	if g == nil {
		g = meta.NewGroup(nil)
	}
	doc, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	if err := s.Put(ctx, meta.DocumentKey(path), doc); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	return &Group{meta: g, store: s, path: path}, nil
}

// OpenGroup reads and validates the metadata document at the node path.
func OpenGroup(ctx context.Context, s store.Store, path string) (*Group, error) {
	if err := meta.ValidatePath(path); err != nil {
		return nil, err
	}
	doc, err := s.Get(ctx, meta.DocumentKey(path))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	node, err := meta.Parse(doc)
	if err != nil {
		return nil, err
	}
	g, ok := node.(*meta.Group)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s, not a group", ErrNodeType, path, node.NodeType())
	}
	return &Group{meta: g, store: s, path: path}, nil
}

// Meta returns the group's metadata. Callers must not mutate it.
func (g *Group) Meta() *meta.Group { return g.meta }

// Path returns the group's node path.
func (g *Group) Path() string { return g.path }

// Attrs returns the group's user attributes.
func (g *Group) Attrs() map[string]json.RawMessage { return g.meta.Attrs() }

// Children lists the names of the nodes directly below this group: every
// child path one level down that carries its own metadata document.
func (g *Group) Children(ctx context.Context) ([]string, error) {
	prefix := ""
	if g.path != "" {
		prefix = g.path + "/"
	}
	keys, err := g.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := map[string]bool{}
	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || parts[1] != meta.DocumentName {
			continue
		}
		if name := parts[0]; !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
