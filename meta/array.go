package meta

import (
	"encoding/json"

	"github.com/hupe1980/zarrgo/codec"
	"github.com/hupe1980/zarrgo/dtype"
	"github.com/hupe1980/zarrgo/grid"
)

// Array is a validated array metadata document. All invariants hold once a
// value exists: shapes agree in rank, chunk extents are positive, the fill
// value parses under the data type, and the codec list composes into a
// well-ordered chain for the chunk representation.
type Array struct {
	Shape       []int
	DataType    dtype.Type
	ChunkShape  []int
	KeyEncoding grid.KeyEncoding

	// FillRaw is the fill value's original JSON literal, preserved so the
	// document round-trips; Fill is its parsed form.
	FillRaw json.RawMessage
	Fill    dtype.Value

	Codecs []codec.Config

	// DimensionNames has one entry per dimension when present; an entry may
	// be nil for an unnamed dimension.
	DimensionNames []*string

	Attributes map[string]json.RawMessage

	extensions map[string]json.RawMessage
	grid       grid.Grid
	chain      *codec.Chain
}

// NodeType returns "array".
func (a *Array) NodeType() string { return NodeTypeArray }

// Attrs returns the user attributes.
func (a *Array) Attrs() map[string]json.RawMessage { return a.Attributes }

// Rank returns the array's dimensionality.
func (a *Array) Rank() int { return len(a.Shape) }

// Grid returns the array's chunk grid.
func (a *Array) Grid() grid.Grid { return a.grid }

// Chain returns the array's codec pipeline.
func (a *Array) Chain() *codec.Chain { return a.chain }

// ChunkRepr returns the representation of one chunk of this array.
func (a *Array) ChunkRepr() codec.Repr {
	return codec.Repr{Type: a.DataType, Shape: append([]int(nil), a.ChunkShape...), Fill: a.Fill}
}

type chunkGridDoc struct {
	Name          string `json:"name"`
	Configuration struct {
		ChunkShape []int `json:"chunk_shape"`
	} `json:"configuration"`
}

type arrayDoc struct {
	ZarrFormat          int                        `json:"zarr_format"`
	NodeType            string                     `json:"node_type"`
	Shape               []int                      `json:"shape"`
	DataType            string                     `json:"data_type"`
	ChunkGrid           chunkGridDoc               `json:"chunk_grid"`
	ChunkKeyEncoding    *grid.KeyEncoding          `json:"chunk_key_encoding,omitempty"`
	FillValue           json.RawMessage            `json:"fill_value,omitempty"`
	Codecs              []codec.Config             `json:"codecs"`
	DimensionNames      []*string                  `json:"dimension_names,omitempty"`
	Attributes          map[string]json.RawMessage `json:"attributes,omitempty"`
	StorageTransformers []json.RawMessage          `json:"storage_transformers,omitempty"`
}

var arrayFields = map[string]bool{
	"zarr_format": true, "node_type": true, "shape": true, "data_type": true,
	"chunk_grid": true, "chunk_key_encoding": true, "fill_value": true,
	"codecs": true, "dimension_names": true, "attributes": true,
	"storage_transformers": true,
}

func parseArray(data []byte) (*Array, error) {
	var doc arrayDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, metaErr("malformed array document", err)
	}
	ext, err := extensions(data, arrayFields)
	if err != nil {
		return nil, err
	}
	if len(doc.StorageTransformers) > 0 {
		return nil, metaErrf("storage_transformers are not supported")
	}
	if doc.Shape == nil {
		return nil, metaErrf("missing shape")
	}
	if doc.ChunkGrid.Name != "regular" {
		return nil, metaErrf("unsupported chunk_grid %q", doc.ChunkGrid.Name)
	}
	if len(doc.FillValue) == 0 {
		return nil, metaErrf("missing fill_value")
	}

	a := &Array{
		Shape:          doc.Shape,
		ChunkShape:     doc.ChunkGrid.Configuration.ChunkShape,
		FillRaw:        doc.FillValue,
		Codecs:         doc.Codecs,
		DimensionNames: doc.DimensionNames,
		Attributes:     doc.Attributes,
		extensions:     ext,
	}

	t, err := dtype.Parse(doc.DataType)
	if err != nil {
		return nil, metaErr("invalid data_type", err)
	}
	a.DataType = t

	if doc.ChunkKeyEncoding != nil {
		a.KeyEncoding = *doc.ChunkKeyEncoding
	} else {
		a.KeyEncoding = grid.DefaultKeyEncoding()
	}

	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// validate establishes the cross-field invariants and builds the derived
// grid and codec chain. The fill value is parsed from FillRaw.
func (a *Array) validate() error {
	g, err := grid.New(a.Shape, a.ChunkShape)
	if err != nil {
		return metaErr("invalid chunk grid", err)
	}
	a.grid = g

	if err := a.KeyEncoding.Validate(); err != nil {
		return metaErr("invalid chunk_key_encoding", err)
	}

	fill, err := dtype.ParseFill(a.DataType, a.FillRaw)
	if err != nil {
		return metaErr("invalid fill_value", err)
	}
	a.Fill = fill

	chain, err := codec.NewChain(a.Codecs)
	if err != nil {
		return metaErr("invalid codecs", err)
	}
	if err := chain.Validate(codec.Repr{Type: a.DataType, Shape: a.ChunkShape, Fill: a.Fill}); err != nil {
		return metaErr("invalid codecs", err)
	}
	a.chain = chain

	if a.DimensionNames != nil && len(a.DimensionNames) != len(a.Shape) {
		return metaErrf("dimension_names has %d entries for rank %d", len(a.DimensionNames), len(a.Shape))
	}
	return nil
}

// MarshalJSON renders the array document, the structural inverse of Parse.
func (a *Array) MarshalJSON() ([]byte, error) {
	doc := arrayDoc{
		ZarrFormat:     FormatVersion,
		NodeType:       NodeTypeArray,
		Shape:          a.Shape,
		DataType:       a.DataType.String(),
		FillValue:      a.FillRaw,
		Codecs:         a.Codecs,
		DimensionNames: a.DimensionNames,
		Attributes:     a.Attributes,
	}
	doc.ChunkGrid.Name = "regular"
	doc.ChunkGrid.Configuration.ChunkShape = a.ChunkShape
	enc := a.KeyEncoding
	doc.ChunkKeyEncoding = &enc
	if doc.Shape == nil {
		doc.Shape = []int{}
	}
	if doc.Codecs == nil {
		doc.Codecs = []codec.Config{}
	}
	if doc.ChunkGrid.Configuration.ChunkShape == nil {
		doc.ChunkGrid.Configuration.ChunkShape = []int{}
	}
	if len(doc.FillValue) == 0 {
		raw, err := json.Marshal(a.Fill)
		if err != nil {
			return nil, err
		}
		doc.FillValue = raw
	}
	return marshalWithExtensions(doc, a.extensions)
}

// marshalWithExtensions merges preserved extension fields back into the
// document. Key order is not preserved; round-tripping is structural.
func marshalWithExtensions(doc any, ext map[string]json.RawMessage) ([]byte, error) {
	out, err := json.Marshal(doc)
	if err != nil || len(ext) == 0 {
		return out, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(out, &all); err != nil {
		return nil, err
	}
	for field, raw := range ext {
		all[field] = raw
	}
	return json.Marshal(all)
}
