package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FastLogix/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "Berlin", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"52.5170365","lon":"13.3888599"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "FastLogix/test")
	pt, err := c.Lookup(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.InDelta(t, 52.5170365, pt.Lat, 1e-9)
	assert.InDelta(t, 13.3888599, pt.Lon, 1e-9)
}

func TestLookupNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "ua").Lookup(context.Background(), "Nowhere")
	require.ErrorIs(t, err, ErrNoResults)
}

func TestLookupHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "ua").Lookup(context.Background(), "Berlin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestLookupBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "ua").Lookup(context.Background(), "Berlin")
	require.Error(t, err)
}

func TestLookupEmptyAddress(t *testing.T) {
	_, err := New("http://unused", "ua").Lookup(context.Background(), "")
	require.Error(t, err)
}
