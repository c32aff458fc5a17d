package storage_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/vytor/skillswap/internal/storage"
)

func TestAvatarPath(t *testing.T) {
	id := uuid.MustParse("6f1c2a7e-8d9b-4e3f-a1b2-c3d4e5f60718")
	now := time.UnixMilli(1714566600123)

	tests := []struct {
		filename string
		want     string
	}{
		{"me.png", "6f1c2a7e-8d9b-4e3f-a1b2-c3d4e5f60718/1714566600123.png"},
		{"Portrait.JPEG", "6f1c2a7e-8d9b-4e3f-a1b2-c3d4e5f60718/1714566600123.jpeg"},
		{"no-extension", "6f1c2a7e-8d9b-4e3f-a1b2-c3d4e5f60718/1714566600123.jpg"},
		{"", "6f1c2a7e-8d9b-4e3f-a1b2-c3d4e5f60718/1714566600123.jpg"},
		{"archive.tar.gz", "6f1c2a7e-8d9b-4e3f-a1b2-c3d4e5f60718/1714566600123.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, storage.AvatarPath(id, tt.filename, now))
		})
	}
}
