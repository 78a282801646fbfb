package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New([]int{10, 10}, []int{4})
	require.Error(t, err)

	_, err = New([]int{10}, []int{0})
	require.Error(t, err)

	_, err = New([]int{-1}, []int{2})
	require.Error(t, err)

	g, err := New([]int{10, 10}, []int{4, 4})
	require.NoError(t, err)
	require.Equal(t, []int{3, 3}, g.GridShape())
	require.Equal(t, 16, g.ChunkElems())
}

func TestGridShape(t *testing.T) {
	tests := []struct {
		shape, chunk, want []int
	}{
		{[]int{10, 10}, []int{4, 4}, []int{3, 3}},
		{[]int{8}, []int{4}, []int{2}},
		{[]int{9}, []int{4}, []int{3}},
		{[]int{0}, []int{4}, []int{0}},
		{[]int{1, 1, 1}, []int{10, 10, 10}, []int{1, 1, 1}},
		{[]int{}, []int{}, []int{}},
	}
	for _, tt := range tests {
		g, err := New(tt.shape, tt.chunk)
		require.NoError(t, err)
		require.Equal(t, tt.want, g.GridShape())
	}
}

func TestCheckIndex(t *testing.T) {
	g, err := New([]int{10, 10}, []int{4, 4})
	require.NoError(t, err)

	require.NoError(t, g.CheckIndex([]int{0, 0}))
	require.NoError(t, g.CheckIndex([]int{2, 2}))

	for _, idx := range [][]int{{3, 0}, {0, 3}, {-1, 0}, {0}, {0, 0, 0}} {
		err := g.CheckIndex(idx)
		var iie *InvalidIndexError
		require.ErrorAs(t, err, &iie, "index %v", idx)
		require.Equal(t, []int{3, 3}, iie.GridShape)
	}
}

func TestChunkKey(t *testing.T) {
	tests := []struct {
		name string
		enc  KeyEncoding
		base string
		idx  []int
		want string
	}{
		{"default slash", DefaultKeyEncoding(), "arr", []int{0, 1}, "arr/c/0/1"},
		{"default dot", KeyEncoding{Name: EncodingDefault, Separator: "."}, "arr", []int{2, 10}, "arr/c.2.10"},
		{"default root", DefaultKeyEncoding(), "", []int{5}, "c/5"},
		{"default scalar", DefaultKeyEncoding(), "arr", []int{}, "arr/c"},
		{"v2 dot", V2KeyEncoding(), "arr", []int{0, 1}, "arr/0.1"},
		{"v2 slash", KeyEncoding{Name: EncodingV2, Separator: "/"}, "a/b", []int{3, 4}, "a/b/3/4"},
		{"v2 scalar", V2KeyEncoding(), "arr", []int{}, "arr/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.enc.ChunkKey(tt.base, tt.idx))
		})
	}
}

func TestKeyEncodingJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, e := range []KeyEncoding{
			DefaultKeyEncoding(),
			V2KeyEncoding(),
			{Name: EncodingDefault, Separator: "."},
			{Name: EncodingV2, Separator: "/"},
		} {
			data, err := json.Marshal(e)
			require.NoError(t, err)
			var back KeyEncoding
			require.NoError(t, json.Unmarshal(data, &back))
			require.Equal(t, e, back)
		}
	})

	t.Run("defaults separator", func(t *testing.T) {
		var e KeyEncoding
		require.NoError(t, json.Unmarshal([]byte(`{"name":"default","configuration":{}}`), &e))
		require.Equal(t, "/", e.Separator)

		require.NoError(t, json.Unmarshal([]byte(`{"name":"v2"}`), &e))
		require.Equal(t, ".", e.Separator)
	})

	t.Run("rejects unknown", func(t *testing.T) {
		var e KeyEncoding
		require.Error(t, json.Unmarshal([]byte(`{"name":"other"}`), &e))
		require.Error(t, json.Unmarshal([]byte(`{"name":"default","configuration":{"separator":"-"}}`), &e))
	})
}

func TestChunks_Coverage(t *testing.T) {
	g, err := New([]int{10, 10}, []int{4, 4})
	require.NoError(t, err)

	region := Region{Offset: []int{2, 3}, Shape: []int{7, 6}}
	require.NoError(t, g.CheckRegion(region))

	covered := make(map[[2]int]int)
	for pc := range g.Chunks(region) {
		require.NoError(t, g.CheckIndex(pc.Index))
		require.Equal(t, pc.ChunkRegion.Shape, pc.OutRegion.Shape)
		for i := 0; i < pc.OutRegion.Shape[0]; i++ {
			for j := 0; j < pc.OutRegion.Shape[1]; j++ {
				covered[[2]int{pc.OutRegion.Offset[0] + i, pc.OutRegion.Offset[1] + j}]++
			}
		}
	}

	// Every cell of the region covered exactly once.
	require.Len(t, covered, region.NumElements())
	for cell, n := range covered {
		require.Equal(t, 1, n, "cell %v", cell)
	}
}

func TestChunks_RowMajorOrder(t *testing.T) {
	g, err := New([]int{10, 10}, []int{4, 4})
	require.NoError(t, err)

	var got [][]int
	for pc := range g.Chunks(Region{Offset: []int{0, 0}, Shape: []int{10, 10}}) {
		got = append(got, pc.Index)
	}
	require.Equal(t, [][]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}, got)
}

func TestChunks_SingleChunkInterior(t *testing.T) {
	g, err := New([]int{10}, []int{4})
	require.NoError(t, err)

	var pcs []PartialChunk
	for pc := range g.Chunks(Region{Offset: []int{5}, Shape: []int{2}}) {
		pcs = append(pcs, pc)
	}
	require.Len(t, pcs, 1)
	require.Equal(t, []int{1}, pcs[0].Index)
	require.Equal(t, Region{Offset: []int{1}, Shape: []int{2}}, pcs[0].ChunkRegion)
	require.Equal(t, Region{Offset: []int{0}, Shape: []int{2}}, pcs[0].OutRegion)
	require.False(t, pcs[0].Whole([]int{4}))
}

func TestChunks_EmptyRegion(t *testing.T) {
	g, err := New([]int{10}, []int{4})
	require.NoError(t, err)
	for range g.Chunks(Region{Offset: []int{3}, Shape: []int{0}}) {
		t.Fatal("empty region must yield no chunks")
	}
}

func TestChunks_Restartable(t *testing.T) {
	g, err := New([]int{10, 10}, []int{3, 3})
	require.NoError(t, err)
	seq := g.Chunks(Region{Offset: []int{1, 1}, Shape: []int{8, 8}})

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	first := count()
	require.Equal(t, first, count())
	require.Equal(t, 9, first)
}

func TestCheckRegion(t *testing.T) {
	g, err := New([]int{10, 10}, []int{4, 4})
	require.NoError(t, err)

	require.NoError(t, g.CheckRegion(Region{Offset: []int{0, 0}, Shape: []int{10, 10}}))
	require.Error(t, g.CheckRegion(Region{Offset: []int{5, 5}, Shape: []int{6, 1}}))
	require.Error(t, g.CheckRegion(Region{Offset: []int{-1, 0}, Shape: []int{1, 1}}))
	require.Error(t, g.CheckRegion(Region{Offset: []int{0}, Shape: []int{1}}))
}
