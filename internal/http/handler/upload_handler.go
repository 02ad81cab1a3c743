package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/restofleet/pos-admin-api/internal/http/response"
	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/service"
)

// Multipart parse buffer; the per-file size limit is enforced by the
// storage service.
const multipartMemoryLimit = 8 << 20

type UploadHandler struct {
	storage service.StorageService
}

func NewUploadHandler(storage service.StorageService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Upload accepts one image as multipart form field "file" plus a "folder"
// field naming the module category the file belongs to.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid multipart form", nil)
		return
	}
	folder := strings.TrimSpace(r.FormValue("folder"))
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "file field is required", nil)
		return
	}
	defer file.Close()

	stored, err := h.storage.Upload(r.Context(), folder, file, header.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUploadFolder):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "unknown upload folder", nil)
		case errors.Is(err, service.ErrFileTooBig):
			response.Error(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "file exceeds the upload limit", nil)
		case errors.Is(err, service.ErrInvalidFileType):
			response.Error(w, r, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "only jpeg and png images are accepted", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "upload failed", nil)
		}
		return
	}

	actorID, _ := actorIDFromRequest(r)
	observability.Audit(r, "storage.file.uploaded", "folder", folder, "file_name", stored.FileName, "actor_user_id", actorID)
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"fileName":   stored.FileName,
		"uploadedAt": stored.UploadedAt,
		"url":        h.storage.PublicURL(folder, stored.FileName),
	})
}

// Delete removes a previously uploaded file.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	folder := strings.TrimSpace(r.URL.Query().Get("folder"))
	fileName := strings.TrimSpace(r.URL.Query().Get("fileName"))
	if folder == "" || fileName == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "folder and fileName are required", nil)
		return
	}
	if err := h.storage.Delete(r.Context(), folder, fileName); err != nil {
		if errors.Is(err, service.ErrInvalidUploadFolder) {
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "unknown upload folder", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "delete failed", nil)
		return
	}
	actorID, _ := actorIDFromRequest(r)
	observability.Audit(r, "storage.file.deleted", "folder", folder, "file_name", fileName, "actor_user_id", actorID)
	response.JSON(w, r, http.StatusOK, map[string]any{"fileName": fileName, "status": "deleted"})
}
