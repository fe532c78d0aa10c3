package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMergesServerConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, ConfigPath, r.URL.Path)
		json.NewEncoder(w).Encode(Config{
			Fonts: []Font{{ID: "kai", Value: "'KaiTi', serif", Name: "楷体"}},
		})
	}))
	defer srv.Close()

	cfg := NewService(srv.URL, nil).Load(context.Background())
	require.Len(t, cfg.Fonts, 1)
	assert.Equal(t, "kai", cfg.Fonts[0].ID)
	// 服务端未覆盖的类目保持默认
	assert.Len(t, cfg.Themes, 10)
}

func TestFetchSilentOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc := NewService(srv.URL, nil)
	assert.Nil(t, svc.Fetch(context.Background()))
	assert.Equal(t, Defaults(), svc.Load(context.Background()))
}

func TestFetchSilentOnNetworkError(t *testing.T) {
	svc := NewService("http://127.0.0.1:1", nil)
	assert.Nil(t, svc.Fetch(context.Background()))
}

func TestFetchSkippedWithoutBaseURL(t *testing.T) {
	svc := NewService("", nil)
	assert.Nil(t, svc.Fetch(context.Background()))
	assert.Error(t, svc.Save(context.Background(), Defaults()))
}

func TestSave(t *testing.T) {
	var got Config
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewService(srv.URL, nil)
	require.NoError(t, svc.Save(context.Background(), Defaults()))
	assert.Len(t, got.Themes, 10)
}
