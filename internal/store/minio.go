package store

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio stores objects in one bucket under a fixed key prefix.
type Minio struct {
	client *minio.Client
	bucket string
	prefix string
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// host:port, insecure by default for local MinIO.
	return raw, false, nil
}

// normalisePrefix makes a non-empty prefix end in exactly one slash.
func normalisePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// NewMinio connects to an S3-compatible endpoint and checks the bucket exists.
func NewMinio(ctx context.Context, opts Options) (*Minio, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("minio configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	m := &Minio{client: client, bucket: opts.Bucket, prefix: normalisePrefix(opts.Prefix)}
	if err := m.Ping(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Put uploads data as the object prefix+name.
func (m *Minio) Put(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	_, err := m.client.PutObject(
		ctx,
		m.bucket,
		m.prefix+name,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

// List walks the prefix non-recursively; common prefixes play the role of
// directories and are left out.
func (m *Minio) List(ctx context.Context) ([]Object, error) {
	var objs []Object
	for info := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: m.prefix}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects: %w", info.Err)
		}
		name := strings.TrimPrefix(info.Key, m.prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			continue
		}
		objs = append(objs, Object{Name: name, SizeBytes: info.Size})
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Name < objs[j].Name })
	if objs == nil {
		objs = []Object{}
	}
	return objs, nil
}

// Ping checks the bucket is reachable.
func (m *Minio) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("minio bucket does not exist: %s", m.bucket)
	}
	return nil
}

// Location names the bucket and prefix for the upload url hint.
func (m *Minio) Location() string {
	return fmt.Sprintf("in the '%s' bucket under '%s'", m.bucket, m.prefix)
}
