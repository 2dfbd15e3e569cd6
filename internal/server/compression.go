// compression.go - gzip for JSON responses.
//
// Request bodies are never touched; only responses are compressed, and
// small or incompressible ones pass through unchanged.
package server

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

func compressionMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
