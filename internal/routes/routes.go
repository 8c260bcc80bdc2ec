package routes

import (
	"github.com/go-chi/chi/v5"

	"memoir/backend/internal/handlers"
)

// SetupRoutes mounts the journal API. withUpload controls whether the
// Cloudinary-backed image upload route is exposed.
func SetupRoutes(r *chi.Mux, h *handlers.Handler, withUpload bool) {
	r.Post("/enhance", h.Enhance)
	r.Post("/save_entry", h.SaveEntry)
	r.Get("/get_entries", h.GetEntries)
	r.Get("/get_memory_file/{filename}", h.GetMemoryFile)

	if withUpload {
		r.Post("/upload_image", h.UploadImage)
	}
}
