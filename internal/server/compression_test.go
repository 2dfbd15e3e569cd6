package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	body := `{"files":[` + strings.Repeat(`{"name":"a.txt","size_bytes":1},`, 100) + `{}]}`
	h := compressionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))

	tests := []struct {
		name     string
		encoding string
		wantGzip bool
	}{
		{"gzip accepted", "gzip", true},
		{"no accept-encoding", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/files", nil)
			if tt.encoding != "" {
				req.Header.Set("Accept-Encoding", tt.encoding)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			gotGzip := rr.Header().Get("Content-Encoding") == "gzip"
			if gotGzip != tt.wantGzip {
				t.Fatalf("Content-Encoding gzip = %v, want %v", gotGzip, tt.wantGzip)
			}

			var r io.Reader = rr.Body
			if gotGzip {
				zr, err := gzip.NewReader(rr.Body)
				if err != nil {
					t.Fatalf("gzip reader: %v", err)
				}
				defer zr.Close()
				r = zr
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if string(got) != body {
				t.Fatalf("body mismatch after decode")
			}
		})
	}
}
