package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore stores uploaded files and serves them from public URLs.
type BlobStore interface {
	// Upload writes body at path, replacing any existing object.
	Upload(ctx context.Context, path, contentType string, body io.Reader) error
	PublicURL(path string) string
}

const defaultAvatarExt = "jpg"

// AvatarPath returns the object path for a new avatar:
// <user-id>/<unix-millis>.<ext>, with ext taken from filename.
func AvatarPath(userID uuid.UUID, filename string, now time.Time) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" || strings.ContainsAny(ext, "/\\") {
		ext = defaultAvatarExt
	}
	return fmt.Sprintf("%s/%d.%s", userID, now.UnixMilli(), ext)
}
