package server

import (
	"net/http"
)

// fileEntry is one row of GET /files.
type fileEntry struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

type listFilesResp struct {
	Files []fileEntry `json:"files"`
}

// handleListFiles handles GET /files. The store is re-read on every call;
// there is no cache and no pagination. A file still being written may show
// a partial size.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	objs, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("list_failed", map[string]any{
			"rid": RequestIDFromContext(r.Context()),
		}, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	files := make([]fileEntry, 0, len(objs))
	for _, o := range objs {
		files = append(files, fileEntry{Name: o.Name, SizeBytes: o.SizeBytes})
	}
	s.metrics.recordListing(len(files))

	writeJSON(w, http.StatusOK, listFilesResp{Files: files})
}
