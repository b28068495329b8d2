package repository

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	storage_go "github.com/supabase-community/storage-go"

	"paper-extractor/internal/domain"
)

type testLogger struct{}

func (testLogger) Info(string, ...interface{})         {}
func (testLogger) Error(string, error, ...interface{}) {}
func (testLogger) Debug(string, ...interface{})        {}
func (testLogger) Warn(string, ...interface{})         {}
func (l testLogger) With(...interface{}) domain.Logger { return l }

type mockObjectStorage struct {
	uploaded    map[string][]byte
	removed     []string
	signedURL   string
	uploadErr   error
	signErr     error
	removeErr   error
	contentType string
}

func newMockObjectStorage() *mockObjectStorage {
	return &mockObjectStorage{uploaded: map[string][]byte{}}
}

func (m *mockObjectStorage) UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error) {
	if m.uploadErr != nil {
		return storage_go.FileUploadResponse{}, m.uploadErr
	}
	b, _ := io.ReadAll(data)
	m.uploaded[bucketId+"/"+relativePath] = b
	if len(fileOptions) > 0 && fileOptions[0].ContentType != nil {
		m.contentType = *fileOptions[0].ContentType
	}
	return storage_go.FileUploadResponse{}, nil
}

func (m *mockObjectStorage) CreateSignedUrl(bucketId string, filePath string, expiresIn int) (storage_go.SignedUrlResponse, error) {
	if m.signErr != nil {
		return storage_go.SignedUrlResponse{}, m.signErr
	}
	url := m.signedURL
	if url == "" {
		url = "/object/sign/" + bucketId + "/" + filePath + "?token=abc"
	}
	return storage_go.SignedUrlResponse{SignedURL: url}, nil
}

func (m *mockObjectStorage) RemoveFile(bucketId string, paths []string) ([]storage_go.FileUploadResponse, error) {
	if m.removeErr != nil {
		return nil, m.removeErr
	}
	m.removed = append(m.removed, paths...)
	return nil, nil
}

func newTestStore(storage ObjectStorage) *SupabaseDocumentStore {
	return &SupabaseDocumentStore{
		storage: storage,
		baseURL: "http://localhost:54321",
		bucket:  "documents",
		ttl:     600,
		logger:  testLogger{},
	}
}

func TestSupabaseDocumentStore_PutAndRelease(t *testing.T) {
	storage := newMockObjectStorage()
	store := newTestStore(storage)

	ref, err := store.Put(context.Background(), "paper.pdf", []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if !strings.HasPrefix(ref.Name, "extract/") || !strings.HasSuffix(ref.Name, ".pdf") {
		t.Fatalf("unexpected object path %q", ref.Name)
	}
	if string(storage.uploaded["documents/"+ref.Name]) != "%PDF-1.7" {
		t.Fatalf("document bytes not uploaded")
	}
	if storage.contentType != "application/pdf" {
		t.Fatalf("expected pdf content type, got %q", storage.contentType)
	}
	wantPrefix := "http://localhost:54321/storage/v1/object/sign/documents/" + ref.Name
	if !strings.HasPrefix(ref.URI, wantPrefix) {
		t.Fatalf("URI = %q, want prefix %q", ref.URI, wantPrefix)
	}
	if ref.Data != nil {
		t.Fatal("remote reference must not carry inline data")
	}

	if err := store.Release(context.Background(), ref); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if len(storage.removed) != 1 || storage.removed[0] != ref.Name {
		t.Fatalf("expected %s removed, got %v", ref.Name, storage.removed)
	}
}

func TestSupabaseDocumentStore_AbsoluteSignedURL(t *testing.T) {
	storage := newMockObjectStorage()
	storage.signedURL = "https://project.supabase.co/storage/v1/object/sign/documents/x.pdf?token=abc"
	store := newTestStore(storage)

	ref, err := store.Put(context.Background(), "paper.pdf", []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if ref.URI != storage.signedURL {
		t.Fatalf("expected absolute URL unchanged, got %q", ref.URI)
	}
}

func TestSupabaseDocumentStore_SignFailureRemovesUpload(t *testing.T) {
	storage := newMockObjectStorage()
	storage.signErr = errors.New("forbidden")
	store := newTestStore(storage)

	if _, err := store.Put(context.Background(), "paper.pdf", []byte("%PDF-1.7")); err == nil {
		t.Fatal("expected error when signing fails")
	}
	if len(storage.removed) != 1 {
		t.Fatalf("expected orphaned upload to be removed, got %v", storage.removed)
	}
}

func TestSupabaseDocumentStore_UploadFailure(t *testing.T) {
	storage := newMockObjectStorage()
	storage.uploadErr = errors.New("bucket not found")
	store := newTestStore(storage)

	_, err := store.Put(context.Background(), "paper.pdf", []byte("%PDF-1.7"))
	if err == nil || !strings.Contains(err.Error(), "bucket not found") {
		t.Fatalf("expected wrapped upload error, got %v", err)
	}
}

func TestSupabaseDocumentStore_ReleaseNil(t *testing.T) {
	store := newTestStore(newMockObjectStorage())
	if err := store.Release(context.Background(), nil); err != nil {
		t.Fatalf("Release(nil) error = %v", err)
	}
}

func TestInlineDocumentStore(t *testing.T) {
	store := NewInlineDocumentStore()

	ref, err := store.Put(context.Background(), "paper.pdf", []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if ref.URI != "" || string(ref.Data) != "%PDF-1.7" || ref.MIMEType != "application/pdf" {
		t.Fatalf("unexpected inline reference %+v", ref)
	}
	if err := store.Release(context.Background(), ref); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if _, err := store.Put(context.Background(), "empty.pdf", nil); err == nil {
		t.Fatal("expected error for empty document")
	}
}
