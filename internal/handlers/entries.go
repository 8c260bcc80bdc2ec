package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"memoir/backend/internal/models"
)

type SaveEntryRequest struct {
	Title        string  `json:"title"`
	OriginalText string  `json:"originalText"`
	EnhancedText *string `json:"enhancedText"`
	ImageURL     *string `json:"imageUrl"` // base64 data or external URL, stored verbatim
}

type SaveEntryResponse struct {
	Message string                 `json:"message"`
	Entry   map[string]interface{} `json:"entry"`
}

// SaveEntry persists a journal entry: local text mirror first (best effort),
// then the document store. A mirror failure degrades the success message but
// never fails the request; a store failure does.
func (h *Handler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	var req SaveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.OriginalText == "" {
		log.Println("Save entry request missing title or original text.")
		writeError(w, http.StatusBadRequest, "Title and original text are required")
		return
	}

	// Timestamp is server-assigned at the moment of save; the entry is
	// immutable thereafter.
	now := time.Now()
	entry := models.JournalEntry{
		Title:        req.Title,
		OriginalText: req.OriginalText,
		EnhancedText: req.EnhancedText,
		ImageURL:     req.ImageURL,
		Timestamp:    now.Format(models.TimestampLayout),
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
	}

	fileName, err := h.files.Save(entry)
	if err != nil {
		log.Printf("Could not save local file for entry %q: %v. Entry will be saved to DB without fileName.", req.Title, err)
		entry.FileName = nil
	} else {
		entry.FileName = &fileName
	}

	// Detached from the request context: a caller that disconnects mid-save
	// does not interrupt the store write.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := h.store.Insert(ctx, entry)
	if err != nil {
		log.Printf("Error saving entry to MongoDB: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save memory: "+err.Error()+" 😔")
		return
	}
	log.Printf("Entry saved to MongoDB with ID: %s", id.Hex())

	message := "Memory saved successfully! ✨"
	if entry.FileName == nil {
		message += " (Note: Local text file could not be saved. 😟)"
	}

	// Re-read the stored document so the response reflects exactly what the
	// store holds. The re-read gets its own deadline so a slow insert cannot
	// starve it of the shared one.
	readCtx, readCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer readCancel()
	saved, err := h.store.FindByID(readCtx, id)
	if err != nil {
		log.Printf("Could not re-read saved entry %s: %v", id.Hex(), err)
		entry.ID = id
		writeJSON(w, http.StatusCreated, SaveEntryResponse{Message: message, Entry: entry.Map()})
		return
	}

	writeJSON(w, http.StatusCreated, SaveEntryResponse{Message: message, Entry: saved.Map()})
}

// GetEntries returns every stored entry, newest first.
func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := h.store.FindAllSortedDesc(ctx)
	if err != nil {
		log.Printf("Error fetching entries from MongoDB: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch memories: "+err.Error()+" 💔")
		return
	}

	result := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.Map())
	}

	log.Printf("Fetched %d entries from MongoDB.", len(result))
	writeJSON(w, http.StatusOK, result)
}
