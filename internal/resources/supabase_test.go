package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindResources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/resources", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "eq.Mathematics", r.URL.Query().Get("subject"))
		assert.Equal(t, "eq.K-5", r.URL.Query().Get("grade"))
		assert.Equal(t, "project-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer project-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"r1","title":"Counting","description":"Numbers 1-100","file_url":"https://cdn.example.com/counting.pdf","subject":"Mathematics","grade":"K-5"},
			{"id":"r2","title":"Shapes","description":"Basic geometry","file_url":"https://cdn.example.com/shapes.pdf","subject":"Mathematics","grade":"K-5"}
		]`))
	}))
	defer srv.Close()

	f := NewSupabaseFinder(srv.URL, "project-key", time.Second)
	out, err := f.FindResources(context.Background(), "Mathematics", "K-5")
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "r1", out[0].ID)
	assert.Equal(t, "Counting", out[0].Title)
	assert.Equal(t, "https://cdn.example.com/counting.pdf", out[0].FileURL)
	assert.Equal(t, "Shapes", out[1].Title)
}

func TestFindResourcesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewSupabaseFinder(srv.URL, "key", time.Second)
	out, err := f.FindResources(context.Background(), "History", "College")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFindResourcesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewSupabaseFinder(srv.URL, "key", time.Second)
	_, err := f.FindResources(context.Background(), "Science", "6-8")
	assert.ErrorIs(t, err, ErrLookupUnavailable)
}

func TestFindResourcesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewSupabaseFinder(srv.URL, "key", time.Second)
	_, err := f.FindResources(context.Background(), "Science", "6-8")
	assert.ErrorIs(t, err, ErrLookupUnavailable)
}
