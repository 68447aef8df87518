package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *apiClient {
	c := newAPIClient(NewHTTPClient(2*time.Second), map[string]string{"X-Test": "yes"})
	c.backoff = time.Millisecond
	return c
}

func TestFetchJSON_RetriesTransientStatus(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"value": 7}`))
	}))
	defer ts.Close()

	var out struct {
		Value int `json:"value"`
	}
	err := testClient().fetchJSON(context.Background(), http.MethodGet, ts.URL, nil, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Value)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchJSON_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer ts.Close()

	var out map[string]any
	err := testClient().fetchJSON(context.Background(), http.MethodGet, ts.URL, nil, nil, &out)
	require.Error(t, err)

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, "bad key", he.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchJSON_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	var out map[string]any
	err := testClient().fetchJSON(context.Background(), http.MethodGet, ts.URL, nil, nil, &out)
	require.Error(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestFetchJSON_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]any
	err := testClient().fetchJSON(ctx, http.MethodGet, "http://127.0.0.1:1", nil, nil, &out)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchJSON_SendsJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	var out map[string]any
	err := testClient().fetchJSON(context.Background(), http.MethodPost, ts.URL, nil, map[string]int{"a": 1}, &out)
	require.NoError(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Phoenix, AZ", normalize("  Phoenix,   AZ \n"))
	assert.Equal(t, "", normalize("   "))
}
