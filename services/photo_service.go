package services

import (
	"fmt"
	"mime/multipart"

	"github.com/vbranas/tallerpro-api/utils"
)

// PhotoService handles repair photo attachments: upload, URL generation
// and deletion
type PhotoService interface {
	// UploadPhoto validates and uploads a repair photo, returns the storage key
	UploadPhoto(tenantID uint, fileHeader *multipart.FileHeader) (string, error)

	// GetPhotoURL generates a URL for reading an uploaded photo
	GetPhotoURL(photoKey string) (string, error)

	// DeletePhoto removes a photo from storage
	DeletePhoto(photoKey string) error
}

// S3PhotoService implements PhotoService using AWS S3 for storage
type S3PhotoService struct {
	s3Service S3Interface
}

var photoServiceInstance PhotoService

// InitPhotoService initializes the photo service with an S3 backend
func InitPhotoService(s3Service S3Interface) PhotoService {
	photoServiceInstance = &S3PhotoService{
		s3Service: s3Service,
	}
	return photoServiceInstance
}

// GetPhotoService returns the initialized photo service instance
func GetPhotoService() PhotoService {
	return photoServiceInstance
}

// SetPhotoService sets the photo service instance (primarily for testing)
func SetPhotoService(service PhotoService) {
	photoServiceInstance = service
}

// UploadPhoto validates and uploads a repair photo to S3
func (s *S3PhotoService) UploadPhoto(tenantID uint, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidatePhotoFile(fileHeader); err != nil {
		return "", err
	}

	keyPrefix := fmt.Sprintf("tickets/%d", tenantID)
	s3Key, err := s.s3Service.UploadFile(keyPrefix, fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return s3Key, nil
}

// GetPhotoURL generates a presigned URL for reading a photo
func (s *S3PhotoService) GetPhotoURL(photoKey string) (string, error) {
	if photoKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(photoKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate photo URL: %w", err)
	}

	return url, nil
}

// DeletePhoto deletes a photo from S3
func (s *S3PhotoService) DeletePhoto(photoKey string) error {
	if photoKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(photoKey); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	return nil
}
