package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Chunk key encoding names recognized in metadata documents.
const (
	EncodingDefault = "default"
	EncodingV2      = "v2"
)

// KeyEncoding maps a chunk index to the store key suffix under an array's
// node path.
//
// The "default" encoding produces "c" + sep + index components joined by
// sep ("c/0/1"); the "v2" encoding joins the components only ("0.1").
type KeyEncoding struct {
	Name      string
	Separator string
}

// DefaultKeyEncoding is the "default" encoding with a "/" separator.
func DefaultKeyEncoding() KeyEncoding {
	return KeyEncoding{Name: EncodingDefault, Separator: "/"}
}

// V2KeyEncoding is the "v2" encoding with its conventional "." separator.
func V2KeyEncoding() KeyEncoding {
	return KeyEncoding{Name: EncodingV2, Separator: "."}
}

// Validate checks the encoding name and separator.
func (e KeyEncoding) Validate() error {
	if e.Name != EncodingDefault && e.Name != EncodingV2 {
		return fmt.Errorf("unknown chunk key encoding %q", e.Name)
	}
	if e.Separator != "/" && e.Separator != "." {
		return fmt.Errorf("invalid chunk key separator %q", e.Separator)
	}
	return nil
}

// ChunkKey builds the store key for a chunk index. base is the array's node
// path ("" for the root array). The index is assumed valid for the grid.
func (e KeyEncoding) ChunkKey(base string, idx []int) string {
	var sb strings.Builder
	if base != "" {
		sb.WriteString(base)
		sb.WriteString("/")
	}
	switch e.Name {
	case EncodingV2:
		if len(idx) == 0 {
			sb.WriteString("0")
			break
		}
		for i, c := range idx {
			if i > 0 {
				sb.WriteString(e.Separator)
			}
			sb.WriteString(strconv.Itoa(c))
		}
	default:
		sb.WriteString("c")
		for _, c := range idx {
			sb.WriteString(e.Separator)
			sb.WriteString(strconv.Itoa(c))
		}
	}
	return sb.String()
}

// keyEncodingDoc is the document form: {"name": ..., "configuration": {"separator": ...}}.
type keyEncodingDoc struct {
	Name          string `json:"name"`
	Configuration *struct {
		Separator string `json:"separator,omitempty"`
	} `json:"configuration,omitempty"`
}

// MarshalJSON renders the document form.
func (e KeyEncoding) MarshalJSON() ([]byte, error) {
	doc := keyEncodingDoc{Name: e.Name}
	doc.Configuration = &struct {
		Separator string `json:"separator,omitempty"`
	}{Separator: e.Separator}
	return json.Marshal(doc)
}

// UnmarshalJSON parses the document form, applying the per-name default
// separator when the configuration omits one.
func (e *KeyEncoding) UnmarshalJSON(data []byte) error {
	var doc keyEncodingDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	out := KeyEncoding{Name: doc.Name}
	if doc.Configuration != nil && doc.Configuration.Separator != "" {
		out.Separator = doc.Configuration.Separator
	} else {
		switch doc.Name {
		case EncodingV2:
			out.Separator = "."
		default:
			out.Separator = "/"
		}
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*e = out
	return nil
}
