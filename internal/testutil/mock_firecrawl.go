// Package testutil provides testing utilities for the Firecrawl client.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a request received by the mock server.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic object.
func (r RecordedRequest) JSON() map[string]any {
	var out map[string]any
	_ = json.Unmarshal(r.Body, &out)
	return out
}

// MockFirecrawl is a configurable mock Firecrawl API for testing.
// Handlers are keyed by "METHOD /path".
type MockFirecrawl struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewMockFirecrawl starts a new mock server. Unknown routes answer 404.
func NewMockFirecrawl() *MockFirecrawl {
	mock := &MockFirecrawl{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		handler, exists := mock.handlers[r.Method+" "+r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		writeJSON(w, http.StatusNotFound, `{"success":false,"error":"route not mocked"}`, nil)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockFirecrawl) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockFirecrawl) Close() {
	m.server.Close()
}

// Reset forgets recorded requests. Handlers stay registered.
func (m *MockFirecrawl) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetHandler sets a custom handler for method and path.
func (m *MockFirecrawl) SetHandler(method, path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method+" "+path] = handler
}

// SetResponse answers every request to method and path with resp.
func (m *MockFirecrawl) SetResponse(method, path string, resp MockResponse) {
	m.SetHandler(method, path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		writeJSON(w, resp.StatusCode, resp.Body, resp.Headers)
	})
}

// SetJSON answers with status 200 and body.
func (m *MockFirecrawl) SetJSON(method, path, body string) {
	m.SetResponse(method, path, MockResponse{StatusCode: http.StatusOK, Body: body})
}

// SetSequence replays resps in order, repeating the last one once exhausted.
func (m *MockFirecrawl) SetSequence(method, path string, resps ...MockResponse) {
	var mu sync.Mutex
	next := 0
	m.SetHandler(method, path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := resps[next]
		if next < len(resps)-1 {
			next++
		}
		mu.Unlock()

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		writeJSON(w, resp.StatusCode, resp.Body, resp.Headers)
	})
}

// Requests returns a copy of every recorded request.
func (m *MockFirecrawl) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestCount returns the number of requests made to the server.
func (m *MockFirecrawl) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// CountFor returns the number of requests made to method and path.
func (m *MockFirecrawl) CountFor(method, path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request, or false if none was made.
func (m *MockFirecrawl) LastRequest() (RecordedRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

func writeJSON(w http.ResponseWriter, status int, body string, headers map[string]string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if body != "" {
		w.Write([]byte(body))
	}
}

// NewOKResponse creates a 200 OK response with body.
func NewOKResponse(body string) MockResponse {
	return MockResponse{StatusCode: http.StatusOK, Body: body}
}

// NewErrorResponse creates an error response in the API's error shape.
func NewErrorResponse(status int, message string) MockResponse {
	body, _ := json.Marshal(map[string]any{"success": false, "error": message})
	return MockResponse{StatusCode: status, Body: string(body)}
}

// NewRateLimitResponse creates a 429 Too Many Requests response asking the
// caller to wait retryAfter seconds.
func NewRateLimitResponse(retryAfter string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"success":false,"error":"Rate limit exceeded"}`,
		Headers: map[string]string{
			"Retry-After":           retryAfter,
			"X-RateLimit-Limit":     "20",
			"X-RateLimit-Remaining": "0",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return NewErrorResponse(http.StatusInternalServerError, "Internal server error")
}

// NewJobStatusResponse creates a job status page with the given documents
// (raw JSON objects) and next cursor.
func NewJobStatusResponse(status string, next string, docs ...string) MockResponse {
	data := "[]"
	if len(docs) > 0 {
		data = "["
		for i, d := range docs {
			if i > 0 {
				data += ","
			}
			data += d
		}
		data += "]"
	}
	body := map[string]any{
		"status":    status,
		"total":     len(docs),
		"completed": len(docs),
		"data":      json.RawMessage(data),
	}
	if next != "" {
		body["next"] = next
	}
	out, _ := json.Marshal(body)
	return NewOKResponse(string(out))
}
