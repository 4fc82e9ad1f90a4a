package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbranas/tallerpro-api/models"
	"github.com/vbranas/tallerpro-api/services"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

func setupMockPhotoService() *services.MockS3Service {
	mockS3 := services.NewMockS3Service()
	services.InitPhotoService(mockS3)
	return mockS3
}

func multipartPhotoRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(content)
	writer.Close()

	req, _ := http.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadTicketPhoto(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()
	mockS3 := setupMockPhotoService()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.POST("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), UploadTicketPhoto)

	req := multipartPhotoRequest(t, fmt.Sprintf("/tickets/%d/photo", ticket.ID), "damage.png", pngHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].(map[string]interface{})
	key := data["photo_s3_key"].(string)
	assert.Contains(t, key, "tickets/1/")
	assert.True(t, mockS3.FileExists(key))
	assert.NotEmpty(t, data["photo_url"])

	var stored models.RepairTicket
	db.First(&stored, ticket.ID)
	assert.NotNil(t, stored.PhotoS3Key)
	assert.Equal(t, key, *stored.PhotoS3Key)
}

func TestUploadTicketPhoto_ReplacesPreviousAttachment(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()
	mockS3 := setupMockPhotoService()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.POST("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), UploadTicketPhoto)

	req := multipartPhotoRequest(t, fmt.Sprintf("/tickets/%d/photo", ticket.ID), "before.png", pngHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.RepairTicket
	db.First(&stored, ticket.ID)
	firstKey := *stored.PhotoS3Key

	req = multipartPhotoRequest(t, fmt.Sprintf("/tickets/%d/photo", ticket.ID), "after.png", pngHeader)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	db.First(&stored, ticket.ID)
	assert.NotEqual(t, firstKey, *stored.PhotoS3Key)
	assert.False(t, mockS3.FileExists(firstKey), "replaced attachment should be cleaned up")
	assert.True(t, mockS3.FileExists(*stored.PhotoS3Key))
}

func TestUploadTicketPhoto_RejectsNonPNG(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()
	setupMockPhotoService()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.POST("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), UploadTicketPhoto)

	tests := []struct {
		name     string
		filename string
		content  []byte
	}{
		{"wrong extension", "damage.jpg", pngHeader},
		{"wrong magic bytes", "damage.png", []byte("not a png at all")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartPhotoRequest(t, fmt.Sprintf("/tickets/%d/photo", ticket.ID), tt.filename, tt.content)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &response)
			errorData := response["error"].(map[string]interface{})
			assert.Equal(t, "INVALID_FILE_FORMAT", errorData["code"])
		})
	}
}

func TestUploadTicketPhoto_MissingFile(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()
	setupMockPhotoService()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.POST("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), UploadTicketPhoto)

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("/tickets/%d/photo", ticket.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTicketPhoto(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()
	mockS3 := setupMockPhotoService()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.POST("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), UploadTicketPhoto)
	router.DELETE("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), DeleteTicketPhoto)

	req := multipartPhotoRequest(t, fmt.Sprintf("/tickets/%d/photo", ticket.ID), "damage.png", pngHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var stored models.RepairTicket
	db.First(&stored, ticket.ID)
	key := *stored.PhotoS3Key

	req, _ = http.NewRequest(http.MethodDelete, fmt.Sprintf("/tickets/%d/photo", ticket.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	db.First(&stored, ticket.ID)
	assert.Nil(t, stored.PhotoS3Key)
	assert.False(t, mockS3.FileExists(key))
}

func TestPhotoRoutesWithoutConfiguredService(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()
	// Deployments without an S3 bucket never initialize the photo service
	services.SetPhotoService(nil)

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.POST("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), UploadTicketPhoto)
	router.DELETE("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), DeleteTicketPhoto)

	req := multipartPhotoRequest(t, fmt.Sprintf("/tickets/%d/photo", ticket.ID), "damage.png", pngHeader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "PHOTOS_DISABLED", errorData["code"])

	req, _ = http.NewRequest(http.MethodDelete, fmt.Sprintf("/tickets/%d/photo", ticket.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDeleteTicketPhoto_NoAttachment(t *testing.T) {
	db := setupTestDB(t)
	setupTestConfig()
	setupMockPhotoService()

	ticket := seedTicket(db, 1, nil)

	router := setupTestRouter()
	router.DELETE("/tickets/:id/photo", mockAuthMiddleware(1, 1, "staff"), DeleteTicketPhoto)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/tickets/%d/photo", ticket.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "PHOTO_NOT_FOUND", errorData["code"])
}
