package validators

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
)

// multipartMemory is how much of a form is held in memory before file parts
// spill to temp files.
const multipartMemory = 1 << 20

// FileUpload is an optional file part. Close releases any temp file.
type FileUpload struct {
	Filename string
	Size     int64
	File     multipart.File
}

func (f *FileUpload) Close() error {
	if f == nil || f.File == nil {
		return nil
	}
	return f.File.Close()
}

// IsMultipart reports whether the request carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mediaType, "multipart/form-data")
}

// ParseMultipartForm bounds the body to maxBytes and parses it. Callers should
// defer r.MultipartForm.RemoveAll once it succeeds.
func ParseMultipartForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large").
				WithDetails(map[string]any{"maxBytes": maxBytes})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// FormFile returns the named file part, or nil when the form has none.
func FormFile(r *http.Request, field string) (*FileUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file upload").
			WithDetails(map[string]string{field: "could not be read"})
	}
	return &FileUpload{Filename: header.Filename, Size: header.Size, File: file}, nil
}
