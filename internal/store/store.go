// Package store archives uploaded files to Google Cloud Storage and hands
// back a publicly addressable URL for later reference.
package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// ObjectStore uploads file buffers into a single bucket, one folder per
// upload category. Object names are content-addressed so re-uploading the
// same file is a no-op.
type ObjectStore struct {
	client *storage.Client
	bucket string
}

// New creates an ObjectStore writing into the given bucket.
func New(ctx context.Context, bucket string) (*ObjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("store: bucket name cannot be empty")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &ObjectStore{client: client, bucket: bucket}, nil
}

// Upload writes data under folder/<sha256> and returns the object's public
// URL. An already-existing object is treated as success, not a conflict.
func (s *ObjectStore) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	sum := sha256.Sum256(data)
	objectName := fmt.Sprintf("%s/%s", folder, hex.EncodeToString(sum[:]))

	writer := s.client.Bucket(s.bucket).Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			slog.Info("Object already exists, skipping upload.", "object", objectName)
			return s.objectURL(objectName), nil
		}
		return "", fmt.Errorf("failed to write object %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			slog.Info("Object already exists, skipping upload.", "object", objectName)
			return s.objectURL(objectName), nil
		}
		return "", fmt.Errorf("failed to finalize object %s: %w", objectName, err)
	}
	return s.objectURL(objectName), nil
}

func (s *ObjectStore) objectURL(objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName)
}

// Close releases the underlying storage client.
func (s *ObjectStore) Close() error {
	return s.client.Close()
}
