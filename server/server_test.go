package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/bookcard/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoadsYAML(t *testing.T) {
	path := writeConfigFile(t, `
themes:
  - id: theme-night
    color: "#0b0b0b"
fonts:
  - id: test-font
    value: "'Test Font', serif"
    name: 测试字体
`)
	s, err := New(path, nil)
	require.NoError(t, err)

	cfg := s.Config()
	require.Len(t, cfg.Themes, 1)
	assert.Equal(t, "theme-night", cfg.Themes[0].ID)
	require.Len(t, cfg.Fonts, 1)
	assert.Equal(t, "测试字体", cfg.Fonts[0].Name)
}

func TestNewRejectsInvalidCategory(t *testing.T) {
	path := writeConfigFile(t, `
themes:
  - id: theme-broken
`)
	_, err := New(path, nil)
	require.Error(t, err)
}

func TestNewWithoutFileServesDefaults(t *testing.T) {
	s, err := New("", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Config().Themes)
}

func TestGetConfig(t *testing.T) {
	s, err := New("", nil)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + config.ConfigPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg config.Config
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.NotEmpty(t, cfg.Themes)
	assert.NotEmpty(t, cfg.Fonts)
}

func TestPostConfigReplacesAndPersists(t *testing.T) {
	path := writeConfigFile(t, `
themes:
  - id: theme-old
    color: "#ffffff"
`)
	s, err := New(path, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	body, _ := json.Marshal(config.Config{
		Themes: []config.Theme{{ID: "theme-new", Color: "#000000"}},
	})
	resp, err := http.Post(ts.URL+config.ConfigPath, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Len(t, s.Config().Themes, 1)
	assert.Equal(t, "theme-new", s.Config().Themes[0].ID)

	// 写回了文件
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "theme-new")
}

func TestPostConfigRejectsInvalid(t *testing.T) {
	s, err := New("", nil)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	body, _ := json.Marshal(config.Config{Themes: []config.Theme{{ID: ""}}})
	resp, err := http.Post(ts.URL+config.ConfigPath, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = http.Post(ts.URL+config.ConfigPath, "application/json", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
