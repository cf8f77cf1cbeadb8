package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"kobogate/internal/services"
	"kobogate/internal/utils"
)

// Cache-Control lifetimes. Placeholder results cache briefly since the
// failure may be transient; real conversions are stable for longer.
const (
	successCacheControl     = "public, max-age=3600"
	placeholderCacheControl = "public, max-age=300"
)

// ImageHandler serves on-the-fly JPEG conversion of article images.
type ImageHandler struct {
	images services.ImageService
}

func NewImageHandler(images services.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Convert fetches the image at ?url= and returns it re-encoded as JPEG.
// Conversion failures are served as a placeholder JPEG with status 200:
// this endpoint renders inline in articles and must never fail visibly.
func (h *ImageHandler) Convert(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("url")
	if src == "" {
		utils.SendJSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	data, converted := h.images.ConvertToJPEG(r.Context(), src)
	if converted {
		w.Header().Set("Cache-Control", successCacheControl)
	} else {
		log.Error().Str("url", src).Msg("Failed to convert image, serving placeholder")
		w.Header().Set("Cache-Control", placeholderCacheControl)
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("Error writing image response")
	}
}
