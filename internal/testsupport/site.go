package testsupport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request records one request served by a Site.
type Request struct {
	Path      string
	Query     string
	Cookie    string
	UserAgent string
}

// Site is an httptest server that serves canned HTML pages keyed by request
// URI (path plus query) with a fallback to the bare path.
type Site struct {
	*httptest.Server

	mu       sync.Mutex
	pages    map[string]string
	status   map[string]int
	requests []Request
}

// NewSite starts a fixture server that is closed when the test ends.
func NewSite(t testing.TB) *Site {
	t.Helper()
	site := &Site{pages: make(map[string]string), status: make(map[string]int)}
	site.Server = httptest.NewServer(http.HandlerFunc(site.serve))
	t.Cleanup(site.Close)
	return site
}

// Page registers body for uri.
func (s *Site) Page(uri, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[uri] = body
}

// Fail makes uri answer with status.
func (s *Site) Fail(uri string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[uri] = status
}

// Requests returns the requests served so far.
func (s *Site) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Path: r.URL.Path, Query: r.URL.RawQuery, Cookie: r.Header.Get("Cookie"), UserAgent: r.UserAgent()})
	uri := r.URL.RequestURI()
	status, failing := s.status[uri]
	if !failing {
		status, failing = s.status[r.URL.Path]
	}
	body, ok := s.pages[uri]
	if !ok {
		body, ok = s.pages[r.URL.Path]
	}
	s.mu.Unlock()

	switch {
	case failing:
		w.WriteHeader(status)
	case !ok:
		http.NotFound(w, r)
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}
}
