// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_SendsPayloadAndHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		var got map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "hello", got["msg"])

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	resp, err := PostJSON(context.Background(), ts.Client(), ts.URL, map[string]string{"x-api-key": "secret"}, map[string]string{"msg": "hello"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestPostJSON_ReturnsErrorStatusWithoutRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	resp, err := PostJSON(context.Background(), ts.Client(), ts.URL, nil, struct{}{})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "slow down", string(resp.Body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPostJSON_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PostJSON(ctx, ts.Client(), ts.URL, nil, struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostJSON_UnmarshalablePayload(t *testing.T) {
	_, err := PostJSON(context.Background(), nil, "http://127.0.0.1:0", nil, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshaling request")
}
