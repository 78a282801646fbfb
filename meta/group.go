package meta

import (
	"encoding/json"
)

// Group is a validated group metadata document. Groups carry attributes
// only; children are discovered by listing the store under the group's
// path.
type Group struct {
	Attributes map[string]json.RawMessage

	extensions map[string]json.RawMessage
}

// NewGroup constructs a group document.
func NewGroup(attrs map[string]json.RawMessage) *Group {
	return &Group{Attributes: attrs}
}

// NodeType returns "group".
func (g *Group) NodeType() string { return NodeTypeGroup }

// Attrs returns the user attributes.
func (g *Group) Attrs() map[string]json.RawMessage { return g.Attributes }

type groupDoc struct {
	ZarrFormat int                        `json:"zarr_format"`
	NodeType   string                     `json:"node_type"`
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
}

var groupFields = map[string]bool{
	"zarr_format": true, "node_type": true, "attributes": true,
}

func parseGroup(data []byte) (*Group, error) {
	var doc groupDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, metaErr("malformed group document", err)
	}
	ext, err := extensions(data, groupFields)
	if err != nil {
		return nil, err
	}
	return &Group{Attributes: doc.Attributes, extensions: ext}, nil
}

// MarshalJSON renders the group document.
func (g *Group) MarshalJSON() ([]byte, error) {
	doc := groupDoc{
		ZarrFormat: FormatVersion,
		NodeType:   NodeTypeGroup,
		Attributes: g.Attributes,
	}
	return marshalWithExtensions(doc, g.extensions)
}
