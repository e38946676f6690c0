package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/techbridge/movies/backend/service"
)

// UploadHandler stores poster images for the admin console. The returned
// URL goes into a movie's poster_url field.
type UploadHandler struct {
	S3       *service.S3Service
	MaxBytes int64
}

type uploadResponse struct {
	PosterURL string `json:"poster_url"`
}

func (h *UploadHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	if h.S3 == nil {
		http.Error(w, `{"message":"Poster uploads are not configured"}`, http.StatusServiceUnavailable)
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, `{"message":"Failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("poster")
	if err != nil {
		http.Error(w, `{"message":"Missing poster file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowedByExt := ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".webp"
	if !allowedByExt && !strings.HasPrefix(contentType, "image/") {
		http.Error(w, `{"message":"Only image files are allowed"}`, http.StatusBadRequest)
		return
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key, err := h.S3.Upload(r.Context(), header.Filename, file, contentType)
	if err != nil {
		http.Error(w, `{"message":"Failed to upload poster"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(uploadResponse{PosterURL: h.S3.PublicURL(key)})
}
