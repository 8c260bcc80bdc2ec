package handlers

import (
	"errors"
	"log"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"memoir/backend/internal/apperrors"
)

// GetMemoryFile streams a mirrored entry file as a download. The filename is
// resolved against the journal files directory; anything that would escape it
// is rejected before touching the filesystem.
func (h *Handler) GetMemoryFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.files.Path(filename)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPathEscape):
			log.Printf("Attempted directory traversal: %q", filename)
			writeError(w, http.StatusBadRequest, "Invalid filename")
		case errors.Is(err, apperrors.ErrNotFound):
			log.Printf("Requested file not found: %q", filename)
			writeError(w, http.StatusNotFound, "File not found")
		default:
			log.Printf("Error resolving file %q: %v", filename, err)
			writeError(w, http.StatusInternalServerError, "Could not retrieve file: "+err.Error())
		}
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	http.ServeFile(w, r, path)
}
