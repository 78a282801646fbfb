// Package meta implements the metadata document model: parsing, validation
// and serialization of array and group documents, and node path rules.
//
// Validation is total and happens once: Parse either returns a fully
// validated node or an error, never a partially constructed value. Parsed
// nodes are immutable by convention; the storage engine never mutates them.
package meta

import (
	"encoding/json"
	"fmt"
)

// FormatVersion is the only supported metadata format version.
const FormatVersion = 3

// Node type discriminator values.
const (
	NodeTypeArray = "array"
	NodeTypeGroup = "group"
)

// DocumentName is the store key suffix under which a node's metadata
// document lives.
const DocumentName = "zarr.json"

// Error reports a malformed or internally inconsistent metadata document.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("metadata: %s: %v", e.Reason, e.Err)
	}
	return "metadata: " + e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

func metaErr(reason string, err error) error {
	return &Error{Reason: reason, Err: err}
}

func metaErrf(format string, args ...any) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Node is a parsed metadata document, either *Array or *Group.
type Node interface {
	// NodeType returns the document's discriminator, "array" or "group".
	NodeType() string
	// Attrs returns the document's user attributes.
	Attrs() map[string]json.RawMessage
}

// Parse validates a metadata document and dispatches on its node_type.
func Parse(data []byte) (Node, error) {
	var head struct {
		ZarrFormat *int   `json:"zarr_format"`
		NodeType   string `json:"node_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, metaErr("malformed document", err)
	}
	if head.ZarrFormat == nil {
		return nil, metaErrf("missing zarr_format")
	}
	if *head.ZarrFormat != FormatVersion {
		return nil, metaErrf("unsupported zarr_format %d", *head.ZarrFormat)
	}
	switch head.NodeType {
	case NodeTypeArray:
		return parseArray(data)
	case NodeTypeGroup:
		return parseGroup(data)
	case "":
		return nil, metaErrf("missing node_type")
	default:
		return nil, metaErrf("unknown node_type %q", head.NodeType)
	}
}

// extensions collects unrecognized top-level fields. A document may carry
// fields this implementation does not know about only when each one is an
// object declaring "must_understand": false; they are preserved verbatim
// for re-serialization.
func extensions(data []byte, known map[string]bool) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, metaErr("malformed document", err)
	}
	var ext map[string]json.RawMessage
	for field, raw := range all {
		if known[field] {
			continue
		}
		var obj struct {
			MustUnderstand *bool `json:"must_understand"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil || obj.MustUnderstand == nil || *obj.MustUnderstand {
			return nil, metaErrf("unknown field %q must be an extension with \"must_understand\": false", field)
		}
		if ext == nil {
			ext = map[string]json.RawMessage{}
		}
		ext[field] = raw
	}
	return ext, nil
}
