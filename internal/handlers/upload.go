package handlers

import (
	"net/http"
)

type UploadImageResponse struct {
	URL string `json:"url"`
}

// UploadImage accepts a multipart image and stores it on Cloudinary, returning
// the secure URL for use as imageUrl on a later save. The route is only
// mounted when Cloudinary credentials are configured, but the nil check stays
// as a guard.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	// Max 10MB
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided: "+err.Error())
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), file, "memoir")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to upload image: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UploadImageResponse{URL: url})
}
