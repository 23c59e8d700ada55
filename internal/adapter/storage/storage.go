// Package storage holds what the image store backends share: the image
// extension allow-list and stored-name generation.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"todopro/internal/core/domain"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".svg":  true,
}

// ValidateExtension returns the lower-cased extension of name, or
// domain.ErrUnsupportedFileType when it is not an image extension.
func ValidateExtension(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))

	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, ext)
	}

	return ext, nil
}

// StoredName generates a collision-free object name keeping the original
// extension.
func StoredName(original string) (string, error) {
	ext, err := ValidateExtension(original)

	if err != nil {
		return "", err
	}

	return uuid.New().String() + ext, nil
}
