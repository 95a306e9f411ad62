package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// PublicPrefix is the URL path under which stored images are served. Wood
// records keep the bare object name; clients prepend this prefix.
const PublicPrefix = "/uploads/"

var ErrInvalidName = errors.New("invalid object name")

// Object describes a stored upload.
type Object struct {
	Name      string
	Size      int64
	UpdatedAt time.Time
}

// Store persists uploaded images under flat object names.
type Store interface {
	Put(ctx context.Context, name string, body io.Reader, contentType string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Object, error)
	Ping(ctx context.Context) error
}

// GenerateName builds a collision-resistant object name that keeps the
// original file extension. When the original has none, the extension is
// sniffed from head.
func GenerateName(now time.Time, original string, head []byte) (string, error) {
	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("generating upload suffix: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if !validExt(ext) {
		ext = ""
	}
	if ext == "" && len(head) > 0 {
		ext = mimetype.Detect(head).Extension()
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), hex.EncodeToString(suffix[:]), ext), nil
}

// DetectContentType sniffs the media type of the first bytes of an upload.
func DetectContentType(head []byte) string {
	return mimetype.Detect(head).String()
}

// ValidateName rejects names that could escape the uploads area.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || path.Clean(name) != name {
		return ErrInvalidName
	}
	return nil
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
