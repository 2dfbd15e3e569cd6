// Package store persists uploaded blobs in a flat namespace. The backend's
// own listing is the catalog: nothing is indexed in memory and no manifest
// or sidecar files are written.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidName is returned when a name is empty or contains a slash.
	ErrInvalidName = errors.New("invalid object name")
	// ErrUnknownBackend is returned by Open for an unrecognised backend.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Backend names accepted by Open.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// Object describes one stored file as seen at listing time.
type Object struct {
	Name      string
	SizeBytes int64
}

// Store is a flat object store keyed by generated names.
type Store interface {
	// Put creates or overwrites name with data.
	Put(ctx context.Context, name string, data []byte) error
	// List returns the stored objects sorted by name ascending.
	List(ctx context.Context) ([]Object, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	// Location is a short human-readable description of where files go.
	Location() string
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string

	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// Open builds the backend named in opts.Backend. An empty backend means local.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendLocal:
		return NewLocal(opts.Dir)
	case BackendMinio:
		return NewMinio(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// validName rejects names that would leave the flat namespace. A backslash
// is an ordinary character here.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
