// Package imagestore uploads user avatar images to an external image
// hosting service and returns the public URL under which they are served.
package imagestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/DusanM998/ToDoApplication/internal/config"
)

// Store persists image files outside the application database.
type Store interface {
	// Upload stores the image and returns the public URL it is served
	// from. The returned URL is what gets persisted on the user record.
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)

	// Delete removes a previously uploaded image by its public URL.
	Delete(ctx context.Context, url string) error
}

// HTTPStore implements Store against an HTTP image hosting API that
// accepts multipart uploads and answers with a JSON body containing the
// hosted URL.
type HTTPStore struct {
	uploadURL  string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPStore creates a Store backed by the configured upload endpoint.
func NewHTTPStore(cfg config.ImageStoreConfig, logger *slog.Logger) *HTTPStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPStore{
		uploadURL: cfg.UploadURL,
		apiKey:    cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With(slog.String("component", "image_store")),
	}
}

// Ensure HTTPStore implements Store interface
var _ Store = (*HTTPStore)(nil)

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload implements the Store interface.
func (s *HTTPStore) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	// Stream the multipart body so large images never sit in memory twice.
	go func() {
		part, err := writer.CreateFormFile("image", filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, pr)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("image upload request failed",
			"error", err,
			"filename", filename)
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		s.logger.Error("image upload rejected",
			"status", resp.StatusCode,
			"filename", filename)
		return "", fmt.Errorf("image upload failed with status %d", resp.StatusCode)
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if body.URL == "" {
		return "", fmt.Errorf("upload response missing image url")
	}

	s.logger.Debug("image uploaded",
		"filename", filename,
		"url", body.URL)

	return body.URL, nil
}

// Delete implements the Store interface. A missing image is not an
// error; the goal is only that the URL no longer serves content.
func (s *HTTPStore) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("image delete request failed",
			"error", err,
			"url", url)
		return fmt.Errorf("image delete failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
		s.logger.Error("image delete rejected",
			"status", resp.StatusCode,
			"url", url)
		return fmt.Errorf("image delete failed with status %d", resp.StatusCode)
	}

	return nil
}
