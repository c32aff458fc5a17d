package supabase

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vytor/skillswap/internal/storage"
)

var _ storage.BlobStore = (*Client)(nil)

// Upload stores the object at path in the configured bucket, replacing any
// existing object.
func (c *Client) Upload(ctx context.Context, path, contentType string, body io.Reader) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/storage/v1/object/"+c.objectPath(path), nil, body, c.bearer(ctx))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "true")
	return c.do(ctx, "storage", req, nil)
}

// PublicURL returns the unauthenticated URL of the object at path.
func (c *Client) PublicURL(path string) string {
	return c.baseURL + "/storage/v1/object/public/" + c.objectPath(path)
}

func (c *Client) objectPath(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return url.PathEscape(c.bucket) + "/" + strings.Join(segments, "/")
}
