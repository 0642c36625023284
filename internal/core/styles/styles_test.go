package styles

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeNames_Sorted(t *testing.T) {
	names := ThemeNames()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestSetThemeByName(t *testing.T) {
	t.Cleanup(func() { SetThemeByName(DefaultTheme) })

	require.True(t, SetThemeByName("gruvbox"))
	assert.Equal(t, themes["gruvbox"].Primary, ColorPrimary)

	assert.False(t, SetThemeByName("nope"))
	assert.Equal(t, themes["gruvbox"].Primary, ColorPrimary)
}

func TestBlend_Endpoints(t *testing.T) {
	p := themes[DefaultTheme]

	bg, _ := colorful.MakeColor(p.Background)
	fg, _ := colorful.MakeColor(p.Success)

	got, ok := colorful.MakeColor(Blend(p.Background, p.Success, 0))
	require.True(t, ok)
	assert.Less(t, got.DistanceLab(bg), 0.01)

	got, _ = colorful.MakeColor(Blend(p.Background, p.Success, 1))
	assert.Less(t, got.DistanceLab(fg), 0.01)

	mid, _ := colorful.MakeColor(Blend(p.Background, p.Success, 0.5))
	assert.Greater(t, mid.DistanceLab(bg), 0.01)
	assert.Greater(t, mid.DistanceLab(fg), 0.01)
}

func TestGlamourStyle_UsesActivePalette(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.H2.Color)

	want, _ := colorful.MakeColor(ColorPrimary)
	assert.Equal(t, want.Hex(), *cfg.H2.Color)
}
