package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"rdrive-upload/internal/store"
)

// storedFile is the per-file result of an upload.
type storedFile struct {
	SavedAs      string `json:"saved_as"`
	OriginalName string `json:"original_name"`
	SizeBytes    int    `json:"size_bytes"`
}

// uploadResp is returned by POST /upload.
type uploadResp struct {
	storedFile
	URLHint string `json:"url_hint"`
}

// uploadMultipleResp is returned by POST /upload-multiple.
type uploadMultipleResp struct {
	Files []storedFile `json:"files"`
}

// errBodyRead marks failures reading the request, as opposed to storing it.
var errBodyRead = errors.New("read upload body")

// limitBody applies MaxUploadBytes when configured.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) urlHint() string {
	return fmt.Sprintf("This API stores files %s.", s.store.Location())
}

// handleUpload handles POST /upload with a single multipart field "file".
// Parts with other names are skipped; a second "file" part is ignored.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		s.failUpload(w, r, fmt.Errorf("%w: %w", errBodyRead, err))
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.failUpload(w, r, fmt.Errorf("%w: %w", errBodyRead, err))
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		in, err := readUpload(part)
		_ = part.Close()
		if err != nil {
			s.failUpload(w, r, err)
			return
		}
		f, err := s.storeUpload(r.Context(), in)
		if err != nil {
			s.failUpload(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, uploadResp{storedFile: f, URLHint: s.urlHint()})
		return
	}

	s.metrics.recordUploadError("missing_file")
	writeError(w, http.StatusBadRequest, "missing file field \"file\"")
}

// handleUploadMultiple handles POST /upload-multiple. The whole body is read
// before anything is stored, so a malformed or oversized body writes
// nothing. Parts are then stored in input order; the first storage failure
// fails the request and files already written stay in the store.
func (s *Server) handleUploadMultiple(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		s.failUpload(w, r, fmt.Errorf("%w: %w", errBodyRead, err))
		return
	}

	var pending []incomingFile
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.failUpload(w, r, fmt.Errorf("%w: %w", errBodyRead, err))
			return
		}
		if part.FormName() != "files" {
			_ = part.Close()
			continue
		}

		in, err := readUpload(part)
		_ = part.Close()
		if err != nil {
			s.failUpload(w, r, err)
			return
		}
		pending = append(pending, in)
	}

	if len(pending) == 0 {
		s.metrics.recordUploadError("missing_file")
		writeError(w, http.StatusBadRequest, "missing file field \"files\"")
		return
	}

	results := make([]storedFile, 0, len(pending))
	for _, in := range pending {
		f, err := s.storeUpload(r.Context(), in)
		if err != nil {
			s.failUpload(w, r, err)
			return
		}
		results = append(results, f)
	}

	writeJSON(w, http.StatusOK, uploadMultipleResp{Files: results})
}

// incomingFile is one uploaded part held in memory until it is stored.
type incomingFile struct {
	original string
	data     []byte
}

// readUpload reads one part fully into memory. A missing filename counts
// as "".
func readUpload(part *multipart.Part) (incomingFile, error) {
	data, err := io.ReadAll(part)
	if err != nil {
		return incomingFile{}, fmt.Errorf("%w: %w", errBodyRead, err)
	}
	return incomingFile{original: store.Basename(part.FileName()), data: data}, nil
}

// storeUpload writes in under a fresh unique name.
func (s *Server) storeUpload(ctx context.Context, in incomingFile) (storedFile, error) {
	name := store.UniqueName(in.original)
	if err := s.store.Put(ctx, name, in.data); err != nil {
		return storedFile{}, err
	}

	s.metrics.recordUpload(len(in.data))
	s.log.Info("file_stored", map[string]any{
		"rid":           RequestIDFromContext(ctx),
		"saved_as":      name,
		"original_name": in.original,
		"size_bytes":    len(in.data),
	})

	return storedFile{
		SavedAs:      name,
		OriginalName: in.original,
		SizeBytes:    len(in.data),
	}, nil
}

// failUpload maps an upload error to a status: 413 for an exceeded cap, 400
// for an unreadable body, 500 for a storage failure.
func (s *Server) failUpload(w http.ResponseWriter, r *http.Request, err error) {
	fields := map[string]any{
		"rid":  RequestIDFromContext(r.Context()),
		"path": r.URL.Path,
	}

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		s.metrics.recordUploadError("too_large")
		s.log.Warn("upload_too_large", fields)
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
	case errors.Is(err, errBodyRead):
		s.metrics.recordUploadError("bad_request")
		s.log.Warn("upload_bad_body", fields)
		writeError(w, http.StatusBadRequest, "bad multipart body")
	default:
		s.metrics.recordUploadError("write")
		s.log.Error("upload_write_failed", fields, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
