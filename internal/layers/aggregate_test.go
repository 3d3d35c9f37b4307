package layers

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"tacmap/internal/types"
)

func TestAggregator_PreservesEncounterOrder(t *testing.T) {
	agg := New(DefaultVisibility())
	agg.Add(types.Feature{Name: "first", Tag: types.LayerFrontline})
	agg.Add(types.Feature{Name: "second", Tag: types.LayerFrontline})
	agg.Add(types.Feature{Name: "third", Tag: types.LayerFrontline})

	out := agg.Layers()
	require.Equal(t, types.LayerFrontline, out[0].ID)

	var names []string
	for _, f := range out[0].Features {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"first", "second", "third"}, names)
}

func TestAggregator_FixedLayerOrder(t *testing.T) {
	agg := New(DefaultVisibility())
	// Insertion order deliberately scrambled.
	agg.Add(types.Feature{Name: "o", Tag: types.LayerOther})
	agg.Add(types.Feature{Name: "f", Tag: types.LayerFrontline})
	agg.Add(types.Feature{Name: "a", Tag: types.LayerAxis})

	out := agg.Layers()
	require.Len(t, out, len(types.LayerOrder))
	for i, tag := range types.LayerOrder {
		require.Equal(t, tag, out[i].ID)
		require.Equal(t, types.LayerLabels[tag], out[i].Label)
	}
}

func TestAggregator_EmptyBucketsEmitted(t *testing.T) {
	agg := New(DefaultVisibility())
	agg.Add(types.Feature{Tag: types.LayerFrontline})

	out := agg.Layers()
	require.Len(t, out, len(types.LayerOrder), "empty layers still appear in the manifest")
	for _, l := range out {
		if l.ID != types.LayerFrontline {
			require.Empty(t, l.Features)
		}
	}
}

func TestAggregator_UnknownTagGoesToOther(t *testing.T) {
	agg := New(DefaultVisibility())
	agg.Add(types.Feature{Name: "stray", Tag: types.LayerTag("no-such-layer")})

	out := agg.Layers()
	other := out[len(out)-1]
	require.Equal(t, types.LayerOther, other.ID)
	require.Len(t, other.Features, 1)
	require.Equal(t, types.LayerOther, other.Features[0].Tag)
}

func TestDefaultVisibility(t *testing.T) {
	vis := DefaultVisibility()

	require.True(t, vis[types.LayerFrontline])
	require.True(t, vis[types.LayerControlArea])
	require.True(t, vis[types.LayerAxis])
	require.True(t, vis[types.LayerUaUnit])
	require.True(t, vis[types.LayerRuUnit])
	require.True(t, vis[types.LayerUaBorder])
	require.False(t, vis[types.LayerRuBorder])
	require.False(t, vis[types.LayerOther])
}

func TestAggregator_VisibilityApplied(t *testing.T) {
	vis := DefaultVisibility()
	vis[types.LayerFrontline] = false

	agg := New(vis)
	agg.Add(types.Feature{Tag: types.LayerFrontline, Geometry: orb.Point{36, 48}})

	out := agg.Layers()
	require.False(t, out[0].DefaultVisible)
}
