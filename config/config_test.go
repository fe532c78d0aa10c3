package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValid(t *testing.T) {
	cfg := Defaults()
	require.True(t, cfg.Valid())
	assert.Len(t, cfg.Themes, 10)
	assert.Len(t, cfg.Fonts, 4)
	assert.Len(t, cfg.FontColors, 8)
}

func TestFindTheme(t *testing.T) {
	cfg := Defaults()
	theme := cfg.FindTheme("theme-gradient-blue")
	require.NotNil(t, theme)
	assert.Equal(t, "linear-gradient(135deg, #e0c3fc 0%, #8ec5fc 100%)", theme.Background)
	assert.Nil(t, cfg.FindTheme("theme-missing"))
}

func TestValidRejectsBrokenEntries(t *testing.T) {
	cases := []*Config{
		{Themes: []Theme{{ID: ""}}},
		{Themes: []Theme{{ID: "t"}}}, // 既无 color 也无 background
		{Fonts: []Font{{ID: "f", Value: "serif"}}},
		{FontColors: []FontColor{{ID: "c", Value: "#000"}}},
	}
	for _, c := range cases {
		assert.False(t, c.Valid())
	}
}

func TestMergeReplacesWholeCategory(t *testing.T) {
	defaults := Defaults()
	server := &Config{
		Themes: []Theme{{ID: "theme-night", Color: "#000"}},
	}

	merged := Merge(server, defaults)
	// 服务端提供的类目整体替换
	require.Len(t, merged.Themes, 1)
	assert.Equal(t, "theme-night", merged.Themes[0].ID)
	// 未提供的类目沿用默认
	assert.Equal(t, defaults.Fonts, merged.Fonts)
	assert.Equal(t, defaults.FontColors, merged.FontColors)
}

func TestMergeIgnoresInvalidServerConfig(t *testing.T) {
	defaults := Defaults()
	server := &Config{Themes: []Theme{{ID: ""}}}
	assert.Equal(t, defaults, Merge(server, defaults))
	assert.Equal(t, defaults, Merge(nil, defaults))
}
