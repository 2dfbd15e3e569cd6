package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"rdrive-upload/internal/store"
)

type testFile struct {
	field    string
	filename string
	content  []byte
}

func testConfig() Config {
	return Config{
		AppName: defaultAppName,
		Version: "test",
		Addr:    ":0",
		Storage: store.Options{Backend: store.BackendLocal},
	}
}

// newTestServer builds a server over a fresh local store in a temp dir.
func newTestServer(t *testing.T, cfg Config) (*Server, *store.Local) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	st, err := store.NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	cfg.Storage.Dir = dir
	return New(cfg, st, NewLogger(io.Discard, LogConfig{})), st
}

func multipartBody(t *testing.T, files ...testFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func doUpload(t *testing.T, h http.Handler, path, key string, files ...testFile) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, files...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	if key != "" {
		req.Header.Set(HeaderAPIKey, key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func doGet(t *testing.T, h http.Handler, path, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set(HeaderAPIKey, key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	return entries
}

// failingStore fails every Put after the first okPuts calls.
type failingStore struct {
	okPuts int
	puts   int
	names  []string
}

func (f *failingStore) Put(_ context.Context, name string, _ []byte) error {
	f.puts++
	if f.puts > f.okPuts {
		return errors.New("disk full")
	}
	f.names = append(f.names, name)
	return nil
}

func (f *failingStore) List(context.Context) ([]store.Object, error) {
	return nil, errors.New("permission denied")
}

func (f *failingStore) Ping(context.Context) error { return errors.New("unreachable") }

func (f *failingStore) Location() string { return "nowhere" }
