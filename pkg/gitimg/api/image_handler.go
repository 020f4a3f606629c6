package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/gitimg/gitimg/pkg/gitimg"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing.
const maxMultipartMemory = 32 << 20

// ImageResponse is the response body for one stored image
type ImageResponse struct {
	URL        string     `json:"url"`
	Name       string     `json:"name"`
	Path       string     `json:"path,omitempty"`
	Size       int64      `json:"size,omitempty"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

// ListImagesResponse is the response body for the image listing
type ListImagesResponse struct {
	Images []ImageResponse `json:"images"`
}

// DeleteImageRequest is the request body for deleting an image
type DeleteImageRequest struct {
	URL string `json:"url"`
}

// ImageHandler handles HTTP requests for image assets using pkg/gitimg
type ImageHandler struct {
	service gitimg.Service
}

// NewImageHandler creates a new image handler
func NewImageHandler(service gitimg.Service) *ImageHandler {
	return &ImageHandler{service: service}
}

// Routes returns the routes for image assets
func (h *ImageHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.UploadImage)
	r.Get("/", h.ListImages)
	r.Delete("/", h.DeleteImage)

	return r
}

// UploadImage stores one multipart-encoded image and responds with its URL
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	uploadID := uuid.New()

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		slog.Error("Failed to parse multipart form", "upload_id", uploadID, "err", err)
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Missing file field", "upload_id", uploadID, "err", err)
		http.Error(w, "Missing 'file' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Failed to read upload", "upload_id", uploadID, "err", err)
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}

	url, err := h.service.Store(r.Context(), data, header.Filename,
		gitimg.WithContentType(header.Header.Get("Content-Type")),
	)
	if err != nil {
		slog.Error("Failed to store image", "upload_id", uploadID, "name", header.Filename, "err", err)
		http.Error(w, err.Error(), storeStatus(err))
		return
	}

	slog.Info("Stored image", "upload_id", uploadID, "name", header.Filename, "url", url, "size", len(data))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ImageResponse{
		URL:  url,
		Name: header.Filename,
	})
}

// ListImages responds with every stored image, newest first
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.ListAssets(r.Context())
	if err != nil {
		slog.Error("Failed to list images", "err", err)
		http.Error(w, "Image store unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := ListImagesResponse{Images: make([]ImageResponse, 0, len(assets))}
	for _, a := range assets {
		img := ImageResponse{
			URL:  a.URL,
			Name: a.Name,
			Path: a.Path,
			Size: a.Size,
		}
		if !a.UploadedAt.IsZero() {
			t := a.UploadedAt
			img.UploadedAt = &t
		}
		resp.Images = append(resp.Images, img)
	}

	render.JSON(w, r, resp)
}

// DeleteImage removes the image named by the request body's URL
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req DeleteImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode delete request", "err", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "Missing 'url' field", http.StatusBadRequest)
		return
	}

	if err := h.service.Remove(r.Context(), req.URL); err != nil {
		slog.Error("Failed to delete image", "url", req.URL, "err", err)
		http.Error(w, err.Error(), deleteStatus(err))
		return
	}

	slog.Info("Deleted image", "url", req.URL)
	w.WriteHeader(http.StatusNoContent)
}

func storeStatus(err error) int {
	switch {
	case errors.Is(err, gitimg.ErrFileTooLarge), errors.Is(err, gitimg.ErrUnsupportedFileType):
		return http.StatusBadRequest
	case errors.Is(err, gitimg.ErrNamingCollision):
		return http.StatusConflict
	case errors.Is(err, gitimg.ErrConfigurationMissing):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func deleteStatus(err error) int {
	switch {
	case errors.Is(err, gitimg.ErrInvalidAssetURL):
		return http.StatusBadRequest
	case errors.Is(err, gitimg.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
