package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxPhotoSize is 5MB in bytes
	MaxPhotoSize = 5 * 1024 * 1024
	// AllowedPhotoFormat is PNG
	AllowedPhotoFormat = ".png"
)

// pngMagic is the fixed 8-byte PNG file signature
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidatePhotoFile validates an uploaded repair photo: size, extension
// and PNG magic bytes
func ValidatePhotoFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxPhotoSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxPhotoSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != AllowedPhotoFormat {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only %s files are allowed", AllowedPhotoFormat),
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return &FileUploadError{
			Code:    "INVALID_FILE",
			Message: "Could not open uploaded file",
		}
	}
	defer file.Close()

	header := make([]byte, len(pngMagic))
	if _, err := io.ReadFull(file, header); err != nil || !bytes.Equal(header, pngMagic) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "File content is not a valid PNG image",
		}
	}

	return nil
}
