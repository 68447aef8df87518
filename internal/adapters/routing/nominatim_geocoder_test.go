package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimGeocoder_Geocode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Phoenix, AZ", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "logbook-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"33.4484","lon":"-112.0740","display_name":"Phoenix, Arizona"}]`))
	}))
	defer ts.Close()

	g, err := NewNominatimGeocoder(ts.URL+"/", "logbook-test/1.0", nil)
	require.NoError(t, err)

	c, err := g.Geocode(context.Background(), "  Phoenix,  AZ ")
	require.NoError(t, err)
	assert.InDelta(t, 33.4484, c.Lat, 1e-9)
	assert.InDelta(t, -112.0740, c.Lon, 1e-9)
}

func TestNominatimGeocoder_NoResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	g, err := NewNominatimGeocoder(ts.URL, "ua", nil)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "Nowhere")
	require.ErrorIs(t, err, ErrNoResults)
}

func TestNominatimGeocoder_BadCoordinates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"north","lon":"-1"}]`))
	}))
	defer ts.Close()

	g, err := NewNominatimGeocoder(ts.URL, "ua", nil)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "x")
	require.Error(t, err)
}

func TestNewNominatimGeocoder_Validation(t *testing.T) {
	_, err := NewNominatimGeocoder("", "ua", nil)
	assert.Error(t, err)
	_, err = NewNominatimGeocoder("http://x", " ", nil)
	assert.Error(t, err)

	g, err := NewNominatimGeocoder("http://x", "ua", nil)
	require.NoError(t, err)
	_, err = g.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}
