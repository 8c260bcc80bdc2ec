package handlers

import (
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"memoir/backend/internal/models"
)

// EntryStore is the document-store surface the handlers need.
type EntryStore interface {
	Insert(ctx context.Context, entry models.JournalEntry) (primitive.ObjectID, error)
	FindAllSortedDesc(ctx context.Context) ([]models.JournalEntry, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.JournalEntry, error)
}

// Enhancer rewrites journal text through the model service.
type Enhancer interface {
	Enhance(ctx context.Context, journalText string) (string, error)
}

// FileMirror persists and resolves the local text copies of entries.
type FileMirror interface {
	Save(entry models.JournalEntry) (string, error)
	Path(name string) (string, error)
}

// Uploader pushes entry images to external storage.
type Uploader interface {
	Upload(ctx context.Context, file multipart.File, folder string) (string, error)
}

// Handler holds the process-scoped services, constructed once at startup.
type Handler struct {
	store    EntryStore
	enhancer Enhancer
	files    FileMirror
	uploader Uploader // nil when Cloudinary is not configured
}

func New(store EntryStore, enhancer Enhancer, files FileMirror, uploader Uploader) *Handler {
	return &Handler{
		store:    store,
		enhancer: enhancer,
		files:    files,
		uploader: uploader,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
