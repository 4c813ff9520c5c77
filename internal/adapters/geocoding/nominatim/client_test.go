package nominatim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestLocate_ParsesFirstResult(t *testing.T) {
	var gotQuery url.Values
	var gotUA string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"44.0521","lon":"-123.0868"}]`))
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL, UserAgent: "test-agent"})

	coord, err := c.Locate(context.Background(), "Eugene", "OR")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if coord.Lat != 44.0521 || coord.Lon != -123.0868 {
		t.Fatalf("unexpected coordinates: %+v", coord)
	}

	if got := gotQuery.Get("q"); got != "Eugene, OR, USA" {
		t.Fatalf("q = %q", got)
	}
	if got := gotQuery.Get("format"); got != "json" {
		t.Fatalf("format = %q", got)
	}
	if got := gotQuery.Get("limit"); got != "1" {
		t.Fatalf("limit = %q", got)
	}
	if got := gotQuery.Get("countrycodes"); got != "us" {
		t.Fatalf("countrycodes = %q", got)
	}
	if gotUA != "test-agent" {
		t.Fatalf("user-agent = %q", gotUA)
	}
}

func TestLocate_EmptyResultSet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := NewClient(Config{BaseURL: ts.URL})

	_, err := c.Locate(context.Background(), "Nowhere", "ZZ")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestLocate_UpstreamErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
		{
			name: "non-numeric lat",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"lat":"abc","lon":"-123.0"}]`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(tc.handler)
			defer ts.Close()

			c := NewClient(Config{BaseURL: ts.URL})
			_, err := c.Locate(context.Background(), "Eugene", "OR")
			if !errors.Is(err, ErrUpstream) {
				t.Fatalf("expected ErrUpstream, got %v", err)
			}
		})
	}
}
