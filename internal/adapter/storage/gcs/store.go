package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"todopro/internal/adapter/storage"
	"todopro/internal/core/port"
)

// Store keeps uploads in a Google Cloud Storage bucket. The stored name
// doubles as the object path.
type Store struct {
	client *gstorage.Client
	bucket string
}

// NewStore creates the GCS-backed store. With an empty credsPath,
// Application Default Credentials are used.
func NewStore(ctx context.Context, bucket, credsPath string) (port.ImageStore, error) {
	var client *gstorage.Client
	var err error

	if credsPath == "" {
		client, err = gstorage.NewClient(ctx)
	} else {
		client, err = gstorage.NewClient(ctx, option.WithCredentialsFile(credsPath))
	}

	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}

	return &Store{client: client, bucket: bucket}, nil
}

func (s *Store) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	name, err := storage.StoredName(file.Filename)

	if err != nil {
		return "", err
	}

	src, err := file.Open()

	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}

	defer src.Close()

	wc := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	wc.ContentType = file.Header.Get("Content-Type")
	wc.ChunkSize = 0 // small files, skip chunking

	if _, err := io.Copy(wc, src); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("writing object: %w", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("closing object writer: %w", err)
	}

	return name, nil
}

func (s *Store) Remove(ctx context.Context, filename string) error {
	err := s.client.Bucket(s.bucket).Object(filename).Delete(ctx)

	if errors.Is(err, gstorage.ErrObjectNotExist) {
		return nil
	}

	return err
}
