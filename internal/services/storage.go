package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StoredFile is the outcome of persisting one upload: the generated
// filename, its full path and the SHA-256 checksum of the content.
type StoredFile struct {
	Filename string
	FilePath string
	Checksum string
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader, fileType string) (*StoredFile, error)
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// SaveFile implements StorageService. The checksum is computed while the
// upload is streamed to disk, so the stored file and the recorded digest
// always refer to the same bytes.
func (s *storageService) SaveFile(file *multipart.FileHeader, fileType string) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("invalid file extension: %s, only PDF files are supported", ext)
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, hasher), src); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		Filename: uniqueFilename,
		FilePath: filePath,
		Checksum: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := filepath.Join(s.uploadPath, filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
