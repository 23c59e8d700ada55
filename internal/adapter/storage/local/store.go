package local

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"todopro/internal/adapter/storage"
	"todopro/internal/core/port"
)

// Store writes uploads to a directory on local disk.
type Store struct {
	dest string
}

func NewStore(dest string) (port.ImageStore, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}

	return &Store{dest: dest}, nil
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

	dst, err := os.Create(filepath.Join(s.dest, name))

	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}

	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing upload: %w", err)
	}

	return name, nil
}

func (s *Store) Remove(ctx context.Context, filename string) error {
	err := os.Remove(filepath.Join(s.dest, filepath.Base(filename)))

	if os.IsNotExist(err) {
		return nil
	}

	return err
}
