package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ussd_lms/pkg"
)

func testResource() pkg.Resource {
	return pkg.Resource{
		ID:      "res-1",
		Title:   "Algebra Basics",
		FileURL: "https://cdn.example.com/algebra.pdf",
	}
}

func TestSendResourceLink(t *testing.T) {
	var got *http.Request
	var form map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"username": r.PostFormValue("username"),
			"to":       r.PostFormValue("to"),
			"message":  r.PostFormValue("message"),
			"from":     r.PostFormValue("from"),
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient("secret-key", "sandbox", srv.URL, "LMSUSSD", time.Second)
	err := c.SendResourceLink(context.Background(), "+254700000001", testResource())
	require.NoError(t, err)

	assert.Equal(t, "secret-key", got.Header.Get("apiKey"))
	assert.Equal(t, "application/x-www-form-urlencoded", got.Header.Get("Content-Type"))
	assert.Equal(t, "sandbox", form["username"])
	assert.Equal(t, "+254700000001", form["to"])
	assert.Equal(t, "LMSUSSD", form["from"])
	assert.Equal(t, "LMS Resource: Algebra Basics\n\nAccess: https://cdn.example.com/algebra.pdf\n\nPowered by LMS USSD", form["message"])
}

func TestSendResourceLinkRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", "sandbox", srv.URL, "LMSUSSD", time.Second)
	err := c.SendResourceLink(context.Background(), "+254700000001", testResource())
	assert.ErrorContains(t, err, "status 401")
}

func TestSendResourceLinkTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient("key", "sandbox", srv.URL, "LMSUSSD", time.Second)
	err := c.SendResourceLink(context.Background(), "+254700000001", testResource())
	assert.Error(t, err)
}
