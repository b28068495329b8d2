package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"

	"paper-extractor/internal/domain"
)

const pdfMIMEType = "application/pdf"

// ObjectStorage is the subset of the Supabase storage API the store needs.
type ObjectStorage interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	CreateSignedUrl(bucketId string, filePath string, expiresIn int) (storage_go.SignedUrlResponse, error)
	RemoveFile(bucketId string, paths []string) ([]storage_go.FileUploadResponse, error)
}

// SupabaseDocumentStore uploads source documents to a storage bucket and
// hands the model a short-lived signed URL.
type SupabaseDocumentStore struct {
	storage ObjectStorage
	baseURL string
	bucket  string
	ttl     int
	logger  domain.Logger
}

// NewSupabaseDocumentStore creates a store writing to the configured bucket.
func NewSupabaseDocumentStore(storage ObjectStorage, config domain.Config, logger domain.Logger) *SupabaseDocumentStore {
	return &SupabaseDocumentStore{
		storage: storage,
		baseURL: strings.TrimRight(config.GetSupabaseURL(), "/"),
		bucket:  config.GetSupabaseBucket(),
		ttl:     config.GetSignedURLTTL(),
		logger:  logger,
	}
}

// Put uploads data under extract/<uuid>.pdf and signs a URL for it.
func (s *SupabaseDocumentStore) Put(ctx context.Context, name string, data []byte) (*domain.DocumentRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("extract/%s.pdf", uuid.NewString())
	contentType := pdfMIMEType
	if _, err := s.storage.UploadFile(s.bucket, path, bytes.NewReader(data), storage_go.FileOptions{ContentType: &contentType}); err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	signed, err := s.storage.CreateSignedUrl(s.bucket, path, s.ttl)
	if err != nil {
		ref := &domain.DocumentRef{Name: path}
		if rerr := s.Release(context.WithoutCancel(ctx), ref); rerr != nil {
			s.logger.Error("Failed to remove unsigned upload", rerr, "path", path)
		}
		return nil, fmt.Errorf("failed to sign document url: %w", err)
	}

	s.logger.Debug("Document uploaded", "path", path, "source", name, "bytes", len(data))
	return &domain.DocumentRef{
		Name:     path,
		URI:      s.absoluteURL(signed.SignedURL),
		MIMEType: pdfMIMEType,
	}, nil
}

// Release deletes the uploaded object.
func (s *SupabaseDocumentStore) Release(ctx context.Context, ref *domain.DocumentRef) error {
	if ref == nil || ref.Name == "" {
		return nil
	}
	if _, err := s.storage.RemoveFile(s.bucket, []string{ref.Name}); err != nil {
		return fmt.Errorf("failed to remove document %s: %w", ref.Name, err)
	}
	return nil
}

// absoluteURL turns a bucket-relative signed path into a full URL.
func (s *SupabaseDocumentStore) absoluteURL(signed string) string {
	if strings.HasPrefix(signed, "http://") || strings.HasPrefix(signed, "https://") {
		return signed
	}
	if !strings.HasPrefix(signed, "/") {
		signed = "/" + signed
	}
	return s.baseURL + "/storage/v1" + signed
}

// InlineDocumentStore passes the document bytes directly in the request. It
// is used when no remote storage is configured.
type InlineDocumentStore struct{}

// NewInlineDocumentStore creates an inline store.
func NewInlineDocumentStore() *InlineDocumentStore {
	return &InlineDocumentStore{}
}

// Put wraps data in a reference without uploading it.
func (s *InlineDocumentStore) Put(ctx context.Context, name string, data []byte) (*domain.DocumentRef, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document %s is empty", name)
	}
	return &domain.DocumentRef{Name: name, MIMEType: pdfMIMEType, Data: data}, nil
}

// Release is a no-op; nothing was stored.
func (s *InlineDocumentStore) Release(ctx context.Context, ref *domain.DocumentRef) error {
	return nil
}
