package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"memoir/backend/internal/apperrors"
	"memoir/backend/internal/models"
)

func TestSaveEntrySuccess(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{name: "Day_One_20260830_101500_000123.txt"}
	r := newRouter(store, &fakeEnhancer{}, mirror)

	rec := doJSON(t, r, http.MethodPost, "/save_entry", map[string]interface{}{
		"title":        "Day One",
		"originalText": "Hello",
		"enhancedText": "Hello ✨",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string                 `json:"message"`
		Entry   map[string]interface{} `json:"entry"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, "Memory saved successfully! ✨", resp.Message)

	require.Equal(t, "Day One", resp.Entry["title"])
	require.Equal(t, "Hello", resp.Entry["originalText"])
	require.Equal(t, "Hello ✨", resp.Entry["enhancedText"])
	require.Equal(t, "Day_One_20260830_101500_000123.txt", resp.Entry["fileName"])
	require.Equal(t, store.nextID.Hex(), resp.Entry["_id"])

	// Server-assigned timestamp, parseable as ISO-8601.
	ts, ok := resp.Entry["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)

	// Mirror was written before the store insert, with the mirror filename
	// recorded on the stored document.
	require.Len(t, mirror.saved, 1)
	require.Len(t, store.inserted, 1)
	require.NotNil(t, store.inserted[0].FileName)
	require.Equal(t, mirror.name, *store.inserted[0].FileName)
}

func TestSaveEntryMissingTitle(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(store, &fakeEnhancer{}, &fakeMirror{})

	rec := doJSON(t, r, http.MethodPost, "/save_entry", map[string]string{
		"originalText": "Hello",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	require.Equal(t, "Title and original text are required", resp["error"])

	// No store write happened.
	require.Empty(t, store.inserted)
}

func TestSaveEntryMissingOriginalText(t *testing.T) {
	store := &fakeStore{}
	r := newRouter(store, &fakeEnhancer{}, &fakeMirror{})

	rec := doJSON(t, r, http.MethodPost, "/save_entry", map[string]string{
		"title": "Day One",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, store.inserted)
}

func TestSaveEntryMirrorFailureStillSaves(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{saveErr: apperrors.ErrStorage}
	r := newRouter(store, &fakeEnhancer{}, mirror)

	rec := doJSON(t, r, http.MethodPost, "/save_entry", map[string]string{
		"title":        "Day One",
		"originalText": "Hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string                 `json:"message"`
		Entry   map[string]interface{} `json:"entry"`
	}
	decodeBody(t, rec, &resp)
	require.Contains(t, resp.Message, "Memory saved successfully!")
	require.Contains(t, resp.Message, "Local text file could not be saved")
	require.Nil(t, resp.Entry["fileName"])

	require.Len(t, store.inserted, 1)
	require.Nil(t, store.inserted[0].FileName)
}

func TestSaveEntryReReadGetsFreshDeadline(t *testing.T) {
	store := &fakeStore{insertDelay: 30 * time.Millisecond}
	r := newRouter(store, &fakeEnhancer{}, &fakeMirror{name: "f.txt"})

	rec := doJSON(t, r, http.MethodPost, "/save_entry", map[string]string{
		"title":        "Day One",
		"originalText": "Hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The post-insert re-read runs under its own deadline; a slow insert
	// must not eat into it. With a shared context both deadlines would be
	// identical.
	require.False(t, store.insertDeadline.IsZero())
	require.False(t, store.findDeadline.IsZero())
	require.True(t, store.findDeadline.After(store.insertDeadline.Add(20*time.Millisecond)))
}

func TestSaveEntryStoreFailure(t *testing.T) {
	store := &fakeStore{insertErr: apperrors.ErrStorage}
	r := newRouter(store, &fakeEnhancer{}, &fakeMirror{name: "f.txt"})

	rec := doJSON(t, r, http.MethodPost, "/save_entry", map[string]string{
		"title":        "Day One",
		"originalText": "Hello",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	require.Contains(t, resp["error"], "Failed to save memory")
}

func TestGetEntriesNewestFirst(t *testing.T) {
	newer := models.JournalEntry{Title: "B", OriginalText: "later", Timestamp: "2026-08-30T12:00:00Z"}
	older := models.JournalEntry{Title: "A", OriginalText: "earlier", Timestamp: "2026-08-30T11:00:00Z"}
	store := &fakeStore{entries: []models.JournalEntry{newer, older}}
	r := newRouter(store, &fakeEnhancer{}, &fakeMirror{})

	rec := doJSON(t, r, http.MethodGet, "/get_entries", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]interface{}
	decodeBody(t, rec, &resp)
	require.Len(t, resp, 2)
	require.Equal(t, "B", resp[0]["title"])
	require.Equal(t, "A", resp[1]["title"])
}

func TestGetEntriesEmptyStore(t *testing.T) {
	r := newRouter(&fakeStore{}, &fakeEnhancer{}, &fakeMirror{})

	rec := doJSON(t, r, http.MethodGet, "/get_entries", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]interface{}
	decodeBody(t, rec, &resp)
	require.Empty(t, resp)
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestGetEntriesStoreFailure(t *testing.T) {
	store := &fakeStore{findErr: apperrors.ErrStorage}
	r := newRouter(store, &fakeEnhancer{}, &fakeMirror{})

	rec := doJSON(t, r, http.MethodGet, "/get_entries", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	require.Contains(t, resp["error"], "Failed to fetch memories")
}
