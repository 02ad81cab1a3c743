package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/restofleet/pos-admin-api/internal/service"
	servicegomock "github.com/restofleet/pos-admin-api/internal/service/gomock"
)

func multipartUpload(t *testing.T, folder string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("folder", folder); err != nil {
		t.Fatalf("write folder field: %v", err)
	}
	fw, err := w.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write file content: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadHandlerSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := servicegomock.NewMockStorageService(ctrl)
	uploadedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	storage.EXPECT().
		Upload(gomock.Any(), "products", gomock.Any(), gomock.Any()).
		Return(&service.StoredObject{FileName: "abc.png", UploadedAt: uploadedAt}, nil)
	storage.EXPECT().PublicURL("products", "abc.png").Return("/storage/products/abc.png")

	h := NewUploadHandler(storage)
	rr := httptest.NewRecorder()
	h.Upload(rr, multipartUpload(t, "products", []byte("\x89PNG\r\n\x1a\n fake image bytes")))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope(t, rr)
	data := env["data"].(map[string]any)
	if data["fileName"] != "abc.png" || data["url"] != "/storage/products/abc.png" {
		t.Fatalf("unexpected payload: %v", data)
	}
}

func TestUploadHandlerServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{name: "unknown folder", err: service.ErrInvalidUploadFolder, code: http.StatusBadRequest},
		{name: "too big", err: service.ErrFileTooBig, code: http.StatusRequestEntityTooLarge},
		{name: "wrong type", err: service.ErrInvalidFileType, code: http.StatusUnsupportedMediaType},
		{name: "backend failure", err: service.ErrUploadFailed, code: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			storage := servicegomock.NewMockStorageService(ctrl)
			storage.EXPECT().
				Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, tc.err)

			h := NewUploadHandler(storage)
			rr := httptest.NewRecorder()
			h.Upload(rr, multipartUpload(t, "products", []byte("data")))
			if rr.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rr.Code)
			}
		})
	}
}

func TestUploadHandlerMissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := servicegomock.NewMockStorageService(ctrl)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("folder", "products"); err != nil {
		t.Fatalf("write folder field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	h := NewUploadHandler(storage)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUploadHandlerDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := servicegomock.NewMockStorageService(ctrl)
	storage.EXPECT().Delete(gomock.Any(), "products", "abc.png").Return(nil)

	h := NewUploadHandler(storage)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/files?folder=products&fileName=abc.png", nil)
	rr := httptest.NewRecorder()
	h.Delete(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}
