package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned when a temp file doesn't exist.
var ErrNotFound = errors.New("upload: file not found")

// ErrTooLarge is returned when a file exceeds the size limit.
var ErrTooLarge = errors.New("upload: file too large")

// Store is a temp-file storage backend. Files land in the store when
// uploaded and are claimed exactly once when the owning form submission
// is accepted; unclaimed files expire via Cleanup.
type Store interface {
	// Save stores an uploaded file and returns its temp ID.
	Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (tempID string, err error)

	// Claim retrieves and removes a temp file.
	Claim(ctx context.Context, tempID string) (*File, error)

	// Cleanup removes temp files older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// File is a stored upload.
type File struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64

	// Path is set for disk-backed files.
	Path string

	// Reader provides the file contents. Close it when done; for
	// disk-backed files closing also removes the temp file.
	Reader io.ReadCloser
}

// Close closes the file reader if open.
func (f *File) Close() error {
	if f.Reader != nil {
		return f.Reader.Close()
	}
	return nil
}

// Config bounds the upload handler.
type Config struct {
	// MaxFileSize is the maximum accepted size in bytes. Default 10MB.
	MaxFileSize int64

	// AllowedTypes restricts accepted MIME types. Empty allows all.
	AllowedTypes []string
}

// DefaultConfig returns the default handler bounds.
func DefaultConfig() *Config {
	return &Config{MaxFileSize: 10 << 20}
}

// Handler returns an http.Handler accepting one multipart "file" field
// and answering with the minted temp ID as JSON.
func Handler(store Store) http.Handler {
	return HandlerWithConfig(store, DefaultConfig())
}

// HandlerWithConfig returns an upload handler with explicit bounds.
func HandlerWithConfig(store Store, config *Config) http.Handler {
	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = 10 << 20
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Bound the body before parsing so an oversized upload cannot
		// fill the temp dir.
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "malformed multipart body", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "no file provided", http.StatusBadRequest)
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if !typeAllowed(config.AllowedTypes, contentType) {
			http.Error(w, "file type not allowed", http.StatusUnsupportedMediaType)
			return
		}

		tempID, err := store.Save(r.Context(), header.Filename, contentType, header.Size, file)
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "upload failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"temp_id": tempID})
	})
}

func typeAllowed(allowed []string, contentType string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if t == contentType {
			return true
		}
	}
	return false
}
