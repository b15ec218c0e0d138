package mocks

import (
	"context"
	"io"

	"github.com/DusanM998/ToDoApplication/internal/platform/email"
	"github.com/DusanM998/ToDoApplication/internal/platform/imagestore"
)

// SentEmail records one message delivered through MockEmailSender.
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender implements email.Sender for testing
type MockEmailSender struct {
	SendFn func(ctx context.Context, to, subject, htmlBody string) error

	// Sent records every message delivered through the default
	// implementation.
	Sent []SentEmail
}

// Ensure MockEmailSender implements email.Sender
var _ email.Sender = (*MockEmailSender)(nil)

// Send implements the Sender interface
func (m *MockEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, to, subject, htmlBody)
	}

	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// MockImageStore implements imagestore.Store for testing
type MockImageStore struct {
	UploadFn func(ctx context.Context, filename string, content io.Reader) (string, error)
	DeleteFn func(ctx context.Context, url string) error

	// Uploaded and Deleted record the calls seen by the default
	// implementations.
	Uploaded []string
	Deleted  []string
}

// Ensure MockImageStore implements imagestore.Store
var _ imagestore.Store = (*MockImageStore)(nil)

// Upload implements the Store interface. The default returns a fake URL
// derived from the filename.
func (m *MockImageStore) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, filename, content)
	}

	m.Uploaded = append(m.Uploaded, filename)
	return "https://images.example.com/" + filename, nil
}

// Delete implements the Store interface. The default records the URL.
func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, url)
	}

	m.Deleted = append(m.Deleted, url)
	return nil
}
