package testutil

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Response is a canned response served by MockAuthServer
type Response struct {
	Status      int
	ContentType string
	Body        string
}

// JSONResponse builds a canned application/json response
func JSONResponse(status int, body string) Response {
	return Response{Status: status, ContentType: "application/json", Body: body}
}

// TextResponse builds a canned text/plain response
func TextResponse(status int, body string) Response {
	return Response{Status: status, ContentType: "text/plain", Body: body}
}

// RecordedRequest captures what the client sent to the mock server
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// MockAuthServer is an httptest server standing in for an authorization server.
// Each path answers with its configured Response; unknown paths return 404.
type MockAuthServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	requests  []RecordedRequest
}

// NewMockAuthServer starts a mock authorization server and registers its shutdown with t.Cleanup
func NewMockAuthServer(t *testing.T) *MockAuthServer {
	t.Helper()

	m := &MockAuthServer{
		responses: make(map[string]Response),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serveHTTP))
	t.Cleanup(m.Close)
	return m
}

// Respond sets the response served for path
func (m *MockAuthServer) Respond(path string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = resp
}

// Requests returns a copy of all requests received so far
func (m *MockAuthServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, failing the test if there was none
func (m *MockAuthServer) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	reqs := m.Requests()
	if len(reqs) == 0 {
		t.Fatal("mock authorization server received no requests")
	}
	return reqs[len(reqs)-1]
}

func (m *MockAuthServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := m.responses[r.URL.Path]
	m.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

// GenerateRandomString generates a random base64-encoded string
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("failed to generate random string: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length]
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}
