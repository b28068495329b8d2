package service

import (
	"context"
	"errors"
	"sync"

	"paper-extractor/internal/domain"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{messages: []string{}}
}

func (m *MockLogger) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, line)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

func (m *MockLogger) With(args ...interface{}) domain.Logger {
	return m
}

func (m *MockLogger) Has(line string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg == line {
			return true
		}
	}
	return false
}

// MockModel answers transcription calls (no schema) and extraction calls
// (with schema) separately.
type MockModel struct {
	Transcription    string
	TranscriptionErr error
	Extraction       string
	ExtractionErr    error

	Requests []domain.GenerateRequest
}

func (m *MockModel) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if req.Schema == nil {
		return m.Transcription, m.TranscriptionErr
	}
	return m.Extraction, m.ExtractionErr
}

type MockRasterizer struct {
	Pages []domain.PageImage
	Err   error
	Calls int
}

func (m *MockRasterizer) Rasterize(ctx context.Context, path string) ([]domain.PageImage, error) {
	m.Calls++
	return m.Pages, m.Err
}

type MockDocumentStore struct {
	PutErr     error
	ReleaseErr error
	Puts       int
	Released   []*domain.DocumentRef
}

func (m *MockDocumentStore) Put(ctx context.Context, name string, data []byte) (*domain.DocumentRef, error) {
	m.Puts++
	if m.PutErr != nil {
		return nil, m.PutErr
	}
	return &domain.DocumentRef{Name: "extract/" + name, URI: "https://storage.test/" + name, MIMEType: "application/pdf"}, nil
}

func (m *MockDocumentStore) Release(ctx context.Context, ref *domain.DocumentRef) error {
	if ctx.Err() != nil {
		return errors.New("release called with a done context")
	}
	m.Released = append(m.Released, ref)
	return m.ReleaseErr
}
