// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_Success(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"ok","count":3}`))
	}))
	defer ts.Close()

	var v struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	err := GetJSON(context.Background(), ts.Client(), ts.URL, "test/0.1", &v)
	require.NoError(t, err)

	assert.Equal(t, "ok", v.Name)
	assert.Equal(t, 3, v.Count)
	assert.Equal(t, "test/0.1", gotUA)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetJSON_StatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"bad request", http.StatusBadRequest},
		{"too many requests", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			var v map[string]any
			err := GetJSON(context.Background(), ts.Client(), ts.URL+"/esearch.fcgi?term=secret", "", &v)
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.True(t, IsStatus(err, tt.status))
			assert.True(t, IsStatus(err, 0))
			assert.False(t, errors.Is(err, ErrTransport))
			assert.NotContains(t, err.Error(), "secret")
			// No retry on any status.
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestGetJSON_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := ts.URL
	ts.Close()

	var v map[string]any
	err := GetJSON(context.Background(), http.DefaultClient, url, "", &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, IsStatus(err, 0))
}

func TestGetJSON_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	client := NewClient(50 * time.Millisecond)
	var v map[string]any
	err := GetJSON(context.Background(), client, ts.URL, "", &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGetJSON_BodyStallIsTransportError(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"esearchresult": {"idlist": [`))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-time.After(500 * time.Millisecond):
		}
	}))
	defer ts.Close()
	defer close(release)

	client := NewClient(100 * time.Millisecond)
	var v map[string]any
	err := GetJSON(context.Background(), client, ts.URL, "", &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, errors.Is(err, ErrDecode))
	assert.False(t, IsStatus(err, 0))
}

func TestGetJSON_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer ts.Close()

	var v map[string]any
	err := GetJSON(context.Background(), ts.Client(), ts.URL, "", &v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient(0).Timeout)
	assert.Equal(t, DefaultTimeout, NewClient(-time.Second).Timeout)
	assert.Equal(t, 3*time.Second, NewClient(3*time.Second).Timeout)
}
