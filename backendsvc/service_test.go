// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package backendsvc

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/deskbridge/deskbridge/lib/clock"
	"github.com/deskbridge/deskbridge/lib/schema/backendapi"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, root string) http.Handler {
	t.Helper()
	return New(Config{
		Root:    root,
		Version: "9.9.9",
		Clock:   clock.Fake(epoch),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func serve(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, reader))
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", recorder.Code, recorder.Body.String())
	}
	var value T
	if err := json.Unmarshal(recorder.Body.Bytes(), &value); err != nil {
		t.Fatalf("decoding %q: %v", recorder.Body.String(), err)
	}
	return value
}

func TestFibonacci(t *testing.T) {
	tests := []struct {
		input int
		want  int64
	}{
		{0, 0}, {1, 1}, {2, 1}, {10, 55}, {20, 6765},
	}
	for _, test := range tests {
		if got := Fibonacci(test.input); got != test.want {
			t.Errorf("Fibonacci(%d) = %d, want %d", test.input, got, test.want)
		}
	}
}

func TestHealth(t *testing.T) {
	health := decode[backendapi.HealthStatus](t, serve(t, newTestService(t, t.TempDir()), "GET", "/health", ""))
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if !health.Timestamp.Equal(epoch) {
		t.Errorf("timestamp = %v, want %v", health.Timestamp, epoch)
	}
}

func TestSystem(t *testing.T) {
	info := decode[backendapi.SystemInfo](t, serve(t, newTestService(t, t.TempDir()), "GET", "/system", ""))
	if info.OS != runtime.GOOS || info.Architecture != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", info.OS, info.Architecture, runtime.GOOS, runtime.GOARCH)
	}
	if info.CPUCount < 1 {
		t.Errorf("cpuCount = %d, want >= 1", info.CPUCount)
	}
	if info.BackendVersion != "9.9.9" {
		t.Errorf("backendVersion = %q, want 9.9.9", info.BackendVersion)
	}
}

func TestGreet(t *testing.T) {
	handler := newTestService(t, t.TempDir())
	tests := []struct {
		target string
		want   string
	}{
		{"/greet", "Hello, World!"},
		{"/greet?name=", "Hello, World!"},
		{"/greet?name=%20%20", "Hello, World!"},
		{"/greet?name=Ada", "Hello, Ada!"},
		{"/greet?name=%20Ada%20", "Hello, Ada!"},
	}
	for _, test := range tests {
		greeting := decode[backendapi.Greeting](t, serve(t, handler, "GET", test.target, ""))
		if greeting.Greeting != test.want {
			t.Errorf("GET %s greeting = %q, want %q", test.target, greeting.Greeting, test.want)
		}
	}
}

func TestCompute(t *testing.T) {
	result := decode[backendapi.ComputeResult](t, serve(t, newTestService(t, t.TempDir()), "POST", "/compute", `{"number":10}`))
	if result.Input != 10 || result.Result != 55 {
		t.Errorf("compute(10) = %+v, want input 10 result 55", result)
	}
	if result.ElapsedMs < 0 {
		t.Errorf("elapsedMs = %d, want >= 0", result.ElapsedMs)
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	handler := newTestService(t, t.TempDir())
	for _, body := range []string{`{"number":46}`, `{"number":-1}`, `{}`, `not json`, `{"number":"ten"}`} {
		recorder := serve(t, handler, "POST", "/compute", body)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("POST /compute %s: status = %d, want 400", body, recorder.Code)
		}
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Mkdir(filepath.Join(root, "docs"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	files := decode[[]backendapi.FileEntry](t, serve(t, newTestService(t, root), "GET", "/files", ""))
	if len(files) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(files), files)
	}
	byName := map[string]backendapi.FileEntry{}
	for _, entry := range files {
		byName[entry.Name] = entry
	}
	if entry := byName["notes.txt"]; entry.IsDirectory || entry.Size != 5 {
		t.Errorf("notes.txt = %+v, want 5-byte file", entry)
	}
	if entry := byName["docs"]; !entry.IsDirectory {
		t.Errorf("docs = %+v, want directory", entry)
	}
}

func TestFilesMissingRoot(t *testing.T) {
	recorder := serve(t, newTestService(t, filepath.Join(t.TempDir(), "gone")), "GET", "/files", "")
	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", recorder.Code)
	}
}

func TestWrongMethod(t *testing.T) {
	handler := newTestService(t, t.TempDir())
	for _, request := range []struct{ method, target string }{
		{"GET", "/compute"},
		{"POST", "/greet"},
		{"DELETE", "/health"},
	} {
		recorder := serve(t, handler, request.method, request.target, "")
		if recorder.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, want 405", request.method, request.target, recorder.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	handler := newTestService(t, t.TempDir())

	preflight := serve(t, handler, "OPTIONS", "/compute", "")
	if preflight.Code != http.StatusOK {
		t.Errorf("OPTIONS status = %d, want 200", preflight.Code)
	}
	if got := preflight.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("preflight Allow-Origin = %q, want *", got)
	}

	response := serve(t, handler, "GET", "/health", "")
	if got := response.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("GET Allow-Origin = %q, want *", got)
	}
}
