package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"coursehub/helper"

	"github.com/kurin/blazer/b2"
)

// MaxUploadSize bounds a single submission file.
const MaxUploadSize = 10 << 20

// Uploader stores a submission file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
}

type B2Storage struct {
	Client *b2.Client
	Bucket *b2.Bucket
}

func Init(ctx context.Context, accountID, appKey, bucketName string) (*B2Storage, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &B2Storage{Client: client, Bucket: bucket}, nil
}

func (s *B2Storage) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	obj := s.Bucket.Object(key)
	w := obj.NewWriter(ctx).WithAttrs(&b2.Attrs{ContentType: contentType(key)})

	if _, err := io.Copy(w, io.LimitReader(r, MaxUploadSize)); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return obj.URL(), nil
}

// SubmissionKey places a student's file under its assignment, prefixed
// by upload time so resubmitted names never collide.
func SubmissionKey(studentID, assignmentID, filename string, now time.Time) string {
	return fmt.Sprintf("submissions/%s/%s/%d-%s",
		assignmentID, studentID, now.UTC().Unix(), helper.NormalizeFilename(filename))
}

func contentType(key string) string {
	if t := mime.TypeByExtension(filepath.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}
