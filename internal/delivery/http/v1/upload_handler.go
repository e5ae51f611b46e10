package v1

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Orhanguezel/metahub-backend-sub001/pkg/logger"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/storage"
	"github.com/Orhanguezel/metahub-backend-sub001/pkg/utils"
)

var (
	allowedMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
)

// UploadHandler accepts catalog media, normalizes it (resize + WebP) and
// stores it on R2.
type UploadHandler struct {
	storage       *storage.R2Storage
	maxUploadSize int64
}

func NewUploadHandler(s *storage.R2Storage, maxUploadSizeMB int64) *UploadHandler {
	return &UploadHandler{
		storage:       s,
		maxUploadSize: maxUploadSizeMB << 20, // MB to bytes
	}
}

func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		logger.Get().Warn().Err(err).Msg("Upload: ParseMultipartForm failed")
		utils.WriteError(w, http.StatusBadRequest, "File too large or invalid format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Get().Warn().Err(err).Msg("Upload: FormFile failed")
		utils.WriteError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file extension")
		return
	}

	processedData, newContentType, err := utils.ProcessImage(file, header.Filename)
	if err != nil {
		logger.Get().Error().Err(err).Str("file", header.Filename).Msg("Upload: image processing failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	url, err := h.storage.UploadBuffer(r.Context(), processedData, newContentType)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Upload: R2 upload failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"url": url,
	})
}
