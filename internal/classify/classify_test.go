package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tacmap/internal/kml"
	"tacmap/internal/types"
)

func TestClassify_FolderPathBeatsEverything(t *testing.T) {
	// Name and kind both point at Axis; the folder wins.
	got := Classify(Input{
		Name: "Axis East",
		Path: []string{"Frontline"},
		Kind: kml.KindLineString,
	})
	require.Equal(t, types.LayerFrontline, got)
}

func TestClassify_IconBeatsName(t *testing.T) {
	got := Classify(Input{
		Name:  "Russian assault repelled",
		Style: types.Style{Icon: "ukr_mech.png"},
		Kind:  kml.KindPoint,
	})
	require.Equal(t, types.LayerUaUnit, got)
}

func TestClassify_NameBeatsKind(t *testing.T) {
	got := Classify(Input{
		Name: "Offensive toward Tokmak",
		Kind: kml.KindPolygon,
	})
	require.Equal(t, types.LayerAxis, got)
}

func TestClassify_Deterministic(t *testing.T) {
	in := Input{
		Name:  "Russian unit",
		Path:  []string{"Important Areas"},
		Style: types.Style{Icon: "front_marker.png"},
		Kind:  kml.KindPolygon,
	}
	first := Classify(in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Classify(in))
	}
}

func TestClassify_FolderPath(t *testing.T) {
	tests := []struct {
		name string
		path []string
		want types.LayerTag
	}{
		{name: "frontline", path: []string{"Frontline"}, want: types.LayerFrontline},
		{name: "frontline prefix", path: []string{"Frontline updates"}, want: types.LayerFrontline},
		{name: "case insensitive", path: []string{"FRONTLINE"}, want: types.LayerFrontline},
		{name: "ua units", path: []string{"Ukrainian Unit Positions"}, want: types.LayerUaUnit},
		{name: "ru units", path: []string{"Russian Unit Positions"}, want: types.LayerRuUnit},
		{name: "control areas", path: []string{"Important Areas"}, want: types.LayerControlArea},
		{name: "axis", path: []string{"Axis of advance"}, want: types.LayerAxis},
		{name: "nested", path: []string{"Misc", "Frontline"}, want: types.LayerFrontline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchFolderPath(Input{Path: tt.path})
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Icon(t *testing.T) {
	tests := []struct {
		icon string
		want types.LayerTag
	}{
		{icon: "ukr_inf.png", want: types.LayerUaUnit},
		{icon: "ua_armor.png", want: types.LayerUaUnit},
		{icon: "rus_vdv.png", want: types.LayerRuUnit},
		{icon: "ru_arty.png", want: types.LayerRuUnit},
		{icon: "front_line.png", want: types.LayerFrontline},
	}

	for _, tt := range tests {
		t.Run(tt.icon, func(t *testing.T) {
			got, ok := matchIcon(Input{Style: types.Style{Icon: tt.icon}})
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	_, ok := matchIcon(Input{Style: types.Style{Icon: "star.png"}})
	require.False(t, ok, "unknown icons fall through to later rules")
}

func TestClassify_NameKeywords(t *testing.T) {
	tests := []struct {
		name string
		want types.LayerTag
	}{
		{name: "Front line as of today", want: types.LayerFrontline},
		{name: "Frontline segment", want: types.LayerFrontline},
		{name: "Border of Ukraine", want: types.LayerUaBorder},
		{name: "Russia state border", want: types.LayerRuBorder},
		{name: "Axis toward Kharkiv", want: types.LayerAxis},
		{name: "Summer offensive", want: types.LayerAxis},
		{name: "Counterattack near Robotyne", want: types.LayerAxis},
		{name: "Advance on Avdiivka", want: types.LayerAxis},
		{name: "Ukrainian 92nd brigade", want: types.LayerUaUnit},
		{name: "Russian 58th army", want: types.LayerRuUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchName(Input{Name: tt.name})
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_KindFallback(t *testing.T) {
	require.Equal(t, types.LayerControlArea, Classify(Input{Kind: kml.KindPolygon}))
	require.Equal(t, types.LayerAxis, Classify(Input{Kind: kml.KindLineString}))
}

func TestClassify_Other(t *testing.T) {
	require.Equal(t, types.LayerOther, Classify(Input{Name: "Photo spot", Kind: kml.KindPoint}))
	require.Equal(t, types.LayerOther, Classify(Input{}))
}

func TestHistoric(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "Initial invasion axis", want: true},
		{name: "Axis 2022 Kyiv", want: true},
		{name: "2022 offensive north", want: true},
		{name: "Axis toward Kharkiv", want: false},
		{name: "2022 positions", want: false},
		{name: "Initial positions", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Historic(tt.name); got != tt.want {
				t.Errorf("Historic(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRules_Order(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, 4)

	var names []string
	for _, r := range rules {
		names = append(names, r.Name)
	}
	require.Equal(t, []string{"folder-path", "icon", "name-keywords", "geometry-kind"}, names)
}
