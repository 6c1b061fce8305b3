package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, clientAgent, r.Header.Get("User-Agent"))
		w.Write([]byte("We are building an AI platform."))
	}))
	defer srv.Close()

	text, err := GetText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "We are building an AI platform.", text)
}

func TestGetText_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := GetText(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "Acme", "customer_count": 500}`))
	}))
	defer srv.Close()

	var got struct {
		Name          string `json:"name"`
		CustomerCount int64  `json:"customer_count"`
	}
	require.NoError(t, GetJSON(context.Background(), srv.URL, &got))
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, int64(500), got.CustomerCount)
}

func TestGetJSON_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var got map[string]any
	assert.Error(t, GetJSON(context.Background(), srv.URL, &got))
}
