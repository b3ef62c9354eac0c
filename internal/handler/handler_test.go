package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Seweryn1777/Image/internal/config"
	"github.com/Seweryn1777/Image/internal/domain"
)

type fakeImageService struct {
	uploadID  string
	uploadErr error
	listResp  *domain.ImageList
	listErr   error
	getResp   *domain.ImageWithURL
	getErr    error

	uploadCalls int
	lastInput   domain.UploadInput
	lastParams  domain.ListParams
}

func (f *fakeImageService) Upload(_ context.Context, in domain.UploadInput) (string, error) {
	f.uploadCalls++
	f.lastInput = in
	return f.uploadID, f.uploadErr
}

func (f *fakeImageService) List(_ context.Context, params domain.ListParams) (*domain.ImageList, error) {
	f.lastParams = params
	return f.listResp, f.listErr
}

func (f *fakeImageService) GetByID(_ context.Context, _ string) (*domain.ImageWithURL, error) {
	return f.getResp, f.getErr
}

func newTestRouter(svc *fakeImageService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{
			MaxUploadSize: 1024 * 1024,
			SignedURLTTL:  time.Hour,
		},
	}
	h := NewHandler(svc, cfg, zap.NewNop())

	router := gin.New()
	router.GET("/health", h.HealthCheck)
	router.POST("/image", h.UploadImage)
	router.GET("/image", h.ListImages)
	router.GET("/image/:id", h.GetImageByID)
	return router
}

type formFields map[string]string

func multipartUpload(t *testing.T, fields formFields, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadImage_Success(t *testing.T) {
	svc := &fakeImageService{uploadID: "3c4e9a9e-9f5a-4e7d-9e8e-5a9a3c4e9a9e"}
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, formFields{
		"title":  "Cat",
		"width":  "800",
		"height": "600",
	}, "cat.jpg", "image/jpeg", []byte("jpeg bytes"))

	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, svc.uploadID, resp["id"])

	assert.Equal(t, 1, svc.uploadCalls)
	assert.Equal(t, "Cat", svc.lastInput.Title)
	assert.Equal(t, 800, svc.lastInput.Width)
	assert.Equal(t, 600, svc.lastInput.Height)
	assert.Equal(t, "cat.jpg", svc.lastInput.FileName)
	assert.Equal(t, "image/jpeg", svc.lastInput.MimeType)
	assert.Equal(t, []byte("jpeg bytes"), svc.lastInput.Data)
}

func TestUploadImage_NormalizesMimeTypeCase(t *testing.T) {
	svc := &fakeImageService{uploadID: "any"}
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, formFields{"title": "Cat"}, "cat.png", "IMAGE/PNG", nil)

	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "image/png", svc.lastInput.MimeType)
}

func TestUploadImage_DisallowedMimeType(t *testing.T) {
	svc := &fakeImageService{}
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, formFields{"title": "Doc"}, "doc.pdf", "application/pdf", []byte("%PDF"))

	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	// The pipeline must never run for a rejected upload.
	assert.Zero(t, svc.uploadCalls)
}

func TestUploadImage_MissingTitle(t *testing.T) {
	svc := &fakeImageService{}
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, formFields{}, "cat.jpg", "image/jpeg", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, svc.uploadCalls)
}

func TestUploadImage_DimensionOutOfRange(t *testing.T) {
	svc := &fakeImageService{}
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, formFields{
		"title": "Cat",
		"width": "9000",
	}, "cat.jpg", "image/jpeg", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, svc.uploadCalls)
}

func TestUploadImage_FileTooLarge(t *testing.T) {
	svc := &fakeImageService{}
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, formFields{"title": "Cat"}, "cat.jpg", "image/jpeg",
		bytes.Repeat([]byte("a"), 2*1024*1024))

	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, svc.uploadCalls)
}

func TestUploadImage_PipelineFailure(t *testing.T) {
	svc := &fakeImageService{uploadErr: domain.ErrIngestion}
	router := newTestRouter(svc)

	body, contentType := multipartUpload(t, formFields{"title": "Cat"}, "cat.jpg", "image/jpeg", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListImages_Success(t *testing.T) {
	svc := &fakeImageService{
		listResp: &domain.ImageList{
			Images: []domain.ImageWithURL{
				{
					Image: domain.Image{
						ID:         "id-1",
						Title:      "Cat",
						StorageKey: "images/secret/key.jpg",
						Width:      800,
						Height:     600,
						MimeType:   "image/jpeg",
						Size:       1234,
					},
					URL: "https://signed.example.com/images/secret/key.jpg",
				},
			},
			Count: 1,
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/image?search=cat&limit=10&offset=0&orderBy=createdAt&orderWay=DESC", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "cat", svc.lastParams.Search)
	assert.Equal(t, 10, svc.lastParams.Limit)
	assert.Equal(t, domain.OrderByCreatedAt, svc.lastParams.OrderBy)
	assert.Equal(t, domain.OrderWayDesc, svc.lastParams.OrderWay)

	payload := rec.Body.String()
	assert.Contains(t, payload, `"count":1`)
	assert.Contains(t, payload, `"url"`)
	assert.NotContains(t, payload, "storageKey")
}

func TestListImages_Defaults(t *testing.T) {
	svc := &fakeImageService{listResp: &domain.ImageList{Images: []domain.ImageWithURL{}}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/image", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, svc.lastParams.Limit)
	assert.Equal(t, 0, svc.lastParams.Offset)
	assert.Equal(t, domain.OrderByCreatedAt, svc.lastParams.OrderBy)
	assert.Equal(t, domain.OrderWayDesc, svc.lastParams.OrderWay)
}

func TestListImages_InvalidOrderBy(t *testing.T) {
	svc := &fakeImageService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/image?orderBy=size", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListImages_LimitOutOfRange(t *testing.T) {
	svc := &fakeImageService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/image?limit=501", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetImageByID_Success(t *testing.T) {
	svc := &fakeImageService{
		getResp: &domain.ImageWithURL{
			Image: domain.Image{
				ID:         "3c4e9a9e-9f5a-4e7d-9e8e-5a9a3c4e9a9e",
				Title:      "Cat",
				StorageKey: "images/secret/key.jpg",
				Width:      800,
				Height:     600,
				MimeType:   "image/jpeg",
				Size:       1234,
			},
			URL: "https://signed.example.com/images/secret/key.jpg",
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/image/3c4e9a9e-9f5a-4e7d-9e8e-5a9a3c4e9a9e", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	payload := rec.Body.String()
	assert.Contains(t, payload, `"title":"Cat"`)
	assert.Contains(t, payload, `"url"`)
	assert.NotContains(t, payload, "storageKey")
}

func TestGetImageByID_NotFound(t *testing.T) {
	svc := &fakeImageService{getErr: domain.ErrNotFound}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/image/3c4e9a9e-9f5a-4e7d-9e8e-5a9a3c4e9a9e", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "image not found")
}

func TestGetImageByID_InvalidUUID(t *testing.T) {
	svc := &fakeImageService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/image/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&fakeImageService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
