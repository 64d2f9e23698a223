package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/khengari77/RandomFusion/avalanche"
	"github.com/khengari77/RandomFusion/fingerprint"
	"github.com/khengari77/RandomFusion/fusionerr"
)

func testStream(t *testing.T, style Style) []byte {
	t.Helper()
	fp := fingerprint.MustParse("MD5:11:22:33:44:55:66:77:88:99:aa:bb:cc:dd:ee:ff:00")
	stream, err := avalanche.Expand(fp, StreamLength(style))
	require.NoError(t, err)
	return stream
}

var sampleOverrides = map[string]any{
	KeyBackground:    "#010203",
	KeyGridSize:      3,
	KeyNumCircles:    2,
	KeyBaseStroke:    9,
	KeyNoiseSeed:     42,
	KeyOctaves:       9,
	KeyScale:         100,
	KeyReMin:         -3.0,
	KeyReMax:         2.0,
	KeyImMin:         -2.0,
	KeyImMax:         2.0,
	KeyMaxIterations: 5000,
	KeyInterior:      "#000000",
}

func TestDeriveConsumesDeclaredLayout(t *testing.T) {
	for _, style := range Styles() {
		set, err := Derive(testStream(t, style), style, nil)
		require.NoError(t, err, style)
		require.Equal(t, style, set.Style)
		require.GreaterOrEqual(t, StreamLength(style), MinStreamLength)
		require.GreaterOrEqual(t, StreamLength(style), Size(style))
	}
	require.Equal(t, 773, Size(StyleColorBlocks))
	require.Equal(t, 79, Size(StyleCircles))
	require.Equal(t, 27, Size(StyleNoiseScape))
	require.Equal(t, 37, Size(StyleMandelbrot))
}

func TestDeriveDeterministic(t *testing.T) {
	for _, style := range Styles() {
		stream := testStream(t, style)
		a, err := Derive(stream, style, nil)
		require.NoError(t, err)
		b, err := Derive(stream, style, nil)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(a.Values(), b.Values()), style)
	}
}

func TestDeriveRangesRespected(t *testing.T) {
	for _, style := range Styles() {
		set, err := Derive(testStream(t, style), style, nil)
		require.NoError(t, err)
		switch style {
		case StyleColorBlocks:
			require.True(t, gridDerived.contains(int64(set.ColorBlocks.GridSize)))
			require.Len(t, set.ColorBlocks.Palette, ColorBlocksPaletteSize)
		case StyleCircles:
			require.True(t, circlesDerived.contains(int64(set.Circles.NumCircles)))
			require.True(t, strokeDerived.contains(int64(set.Circles.BaseStroke)))
		case StyleNoiseScape:
			require.True(t, octavesDerived.contains(int64(set.NoiseScape.Octaves)))
			require.True(t, scaleDerived.contains(int64(set.NoiseScape.Scale)))
		case StyleMandelbrot:
			m := set.Mandelbrot
			require.True(t, reMinDerived.contains(m.ReMin))
			require.True(t, reMaxDerived.contains(m.ReMax))
			require.True(t, imMinDerived.contains(m.ImMin))
			require.True(t, imMaxDerived.contains(m.ImMax))
			require.True(t, iterationsDerived.contains(int64(m.MaxIterations)))
		}
	}
}

func TestOverrideIndependence(t *testing.T) {
	for _, style := range Styles() {
		stream := testStream(t, style)
		base, err := Derive(stream, style, nil)
		require.NoError(t, err)
		baseValues := base.Values()

		for _, slot := range Layout(style) {
			if !slot.Overridable {
				continue
			}
			v, ok := sampleOverrides[slot.Name]
			require.True(t, ok, "missing sample override for %s", slot.Name)

			got, err := Derive(stream, style, Overrides{slot.Name: v})
			require.NoError(t, err, "%s/%s", style, slot.Name)
			values := got.Values()

			require.NotEqual(t, baseValues[slot.Name], values[slot.Name], "%s/%s override ignored", style, slot.Name)
			delete(values, slot.Name)
			want := base.Values()
			delete(want, slot.Name)
			require.Empty(t, cmp.Diff(want, values), "%s/%s disturbed other parameters", style, slot.Name)
		}
	}
}

func TestOverrideAcceptsStringsAndFloats(t *testing.T) {
	stream := testStream(t, StyleCircles)
	set, err := Derive(stream, StyleCircles, Overrides{
		KeyNumCircles: "12",
		KeyBaseStroke: float64(3),
		KeyBackground: "ff8000",
	})
	require.NoError(t, err)
	require.Equal(t, 12, set.Circles.NumCircles)
	require.Equal(t, 3, set.Circles.BaseStroke)
	require.Equal(t, "#ff8000", FormatColor(set.Circles.Background))

	seedSet, err := Derive(testStream(t, StyleNoiseScape), StyleNoiseScape, Overrides{KeyNoiseSeed: "0xffffffffffffffff"})
	require.NoError(t, err)
	require.Equal(t, uint64(0xffffffffffffffff), seedSet.NoiseScape.Seed)
}

func TestOverrideDomainErrors(t *testing.T) {
	cases := []struct {
		style  Style
		ov     Overrides
		ruleID string
	}{
		{StyleColorBlocks, Overrides{KeyGridSize: 0}, "RF-PARAM-001"},
		{StyleColorBlocks, Overrides{KeyGridSize: -4}, "RF-PARAM-001"},
		{StyleColorBlocks, Overrides{KeyGridSize: 257}, "RF-PARAM-001"},
		{StyleColorBlocks, Overrides{KeyGridSize: 2.5}, "RF-PARAM-003"},
		{StyleColorBlocks, Overrides{KeyGridSize: "eight"}, "RF-PARAM-003"},
		{StyleColorBlocks, Overrides{KeyNumCircles: 3}, "RF-PARAM-002"},
		{StyleColorBlocks, Overrides{KeyPalette: "#000000"}, "RF-PARAM-002"},
		{StyleColorBlocks, Overrides{KeyBackground: "#ff00ff"}, "RF-PARAM-002"},
		{StyleCircles, Overrides{KeyBackground: "#12345"}, "RF-PARAM-003"},
		{StyleCircles, Overrides{KeyBaseStroke: 0}, "RF-PARAM-001"},
		{StyleNoiseScape, Overrides{KeyNoiseSeed: -1}, "RF-PARAM-001"},
		{StyleNoiseScape, Overrides{KeyOctaves: 13}, "RF-PARAM-001"},
		{StyleMandelbrot, Overrides{KeyReMin: "NaN"}, "RF-PARAM-001"},
		{StyleMandelbrot, Overrides{KeyReMax: 9.0}, "RF-PARAM-001"},
		{StyleMandelbrot, Overrides{KeyReMin: 1.5, KeyReMax: 1.0}, "RF-PARAM-004"},
		{StyleMandelbrot, Overrides{KeyImMax: -2.0}, "RF-PARAM-004"},
		{StyleMandelbrot, Overrides{KeyMaxIterations: 0}, "RF-PARAM-001"},
	}
	for _, tc := range cases {
		_, err := Derive(testStream(t, tc.style), tc.style, tc.ov)
		require.Error(t, err, "%s %v", tc.style, tc.ov)
		require.True(t, fusionerr.IsKind(err, fusionerr.KindParameterOutOfDomain), "%s %v: %v", tc.style, tc.ov, err)
		require.Equal(t, tc.ruleID, fusionerr.RuleID(err), "%s %v: %v", tc.style, tc.ov, err)
	}
}

func TestDeriveShortStream(t *testing.T) {
	_, err := Derive(make([]byte, 10), StyleColorBlocks, nil)
	require.True(t, fusionerr.IsKind(err, fusionerr.KindInvalidLength))
	require.Equal(t, "RF-LEN-002", fusionerr.RuleID(err))
}

func TestParseStyle(t *testing.T) {
	st, err := ParseStyle(" Circles ")
	require.NoError(t, err)
	require.Equal(t, StyleCircles, st)

	_, err = ParseStyle("unknown_style")
	require.True(t, fusionerr.IsKind(err, fusionerr.KindUnknownStyle))

	_, err = Derive(nil, Style("unknown_style"), nil)
	require.True(t, fusionerr.IsKind(err, fusionerr.KindUnknownStyle))
}

func TestCursorAdvancesMonotonically(t *testing.T) {
	stream := []byte{1, 2, 3, 4, 5}
	var c Cursor
	b, c, err := c.Next(stream, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, b)
	require.Equal(t, 2, c.Offset())

	b, c, err = c.Next(stream, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4, 5}, b)

	_, same, err := c.Next(stream, 1)
	require.Error(t, err)
	require.Equal(t, c, same)
}

func TestParseAssignments(t *testing.T) {
	ov, err := ParseAssignments([]string{"grid_size=8", " background = #ffffff "})
	require.NoError(t, err)
	require.Equal(t, Overrides{"grid_size": "8", "background": "#ffffff"}, ov)

	_, err = ParseAssignments([]string{"grid_size"})
	require.Equal(t, "RF-PARAM-005", fusionerr.RuleID(err))

	merged := Overrides{"a": 1, "b": 2}.Merge(Overrides{"b": 3})
	require.Equal(t, Overrides{"a": 1, "b": 3}, merged)
}

func TestIntegerOverridesAreDecimal(t *testing.T) {
	stream := testStream(t, StyleColorBlocks)
	for in, want := range map[string]int{"08": 8, "010": 10, " 12 ": 12, "0x10": 16, "0X1f": 31, "+9": 9} {
		set, err := Derive(stream, StyleColorBlocks, Overrides{KeyGridSize: in})
		require.NoError(t, err, in)
		require.Equal(t, want, set.ColorBlocks.GridSize, in)
	}
	for _, in := range []string{"0x", "0o17", "0b11", "1e2"} {
		_, err := Derive(stream, StyleColorBlocks, Overrides{KeyGridSize: in})
		require.Equal(t, "RF-PARAM-003", fusionerr.RuleID(err), in)
	}

	seed, err := Derive(testStream(t, StyleNoiseScape), StyleNoiseScape, Overrides{KeyNoiseSeed: "0077"})
	require.NoError(t, err)
	require.Equal(t, uint64(77), seed.NoiseScape.Seed)
}

func TestCheckOverrides(t *testing.T) {
	require.NoError(t, CheckOverrides(StyleCircles, Overrides{KeyNumCircles: "12", KeyBackground: "#000000"}))
	require.NoError(t, CheckOverrides(StyleMandelbrot, nil))

	err := CheckOverrides(StyleCircles, Overrides{KeyGridSize: 4})
	require.Equal(t, "RF-PARAM-002", fusionerr.RuleID(err))

	err = CheckOverrides(StyleColorBlocks, Overrides{KeyGridSize: 0})
	require.Equal(t, "RF-PARAM-001", fusionerr.RuleID(err))

	err = CheckOverrides(StyleMandelbrot, Overrides{KeyReMin: 1.5, KeyReMax: 0.5})
	require.Equal(t, "RF-PARAM-004", fusionerr.RuleID(err))

	err = CheckOverrides("spirals", nil)
	require.True(t, fusionerr.IsKind(err, fusionerr.KindUnknownStyle))
}
