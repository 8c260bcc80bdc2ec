package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"memoir/backend/internal/handlers"
	"memoir/backend/internal/models"
	"memoir/backend/internal/routes"
)

// --- stubs ---

type fakeStore struct {
	entries   []models.JournalEntry
	insertErr error
	findErr   error
	inserted  []models.JournalEntry
	nextID    primitive.ObjectID

	insertDelay    time.Duration
	insertDeadline time.Time
	findDeadline   time.Time
}

func (s *fakeStore) Insert(ctx context.Context, entry models.JournalEntry) (primitive.ObjectID, error) {
	s.insertDeadline, _ = ctx.Deadline()
	if s.insertDelay > 0 {
		time.Sleep(s.insertDelay)
	}
	if s.insertErr != nil {
		return primitive.NilObjectID, s.insertErr
	}
	if s.nextID.IsZero() {
		s.nextID = primitive.NewObjectID()
	}
	entry.ID = s.nextID
	s.inserted = append(s.inserted, entry)
	return s.nextID, nil
}

func (s *fakeStore) FindAllSortedDesc(ctx context.Context) ([]models.JournalEntry, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.entries == nil {
		return []models.JournalEntry{}, nil
	}
	return s.entries, nil
}

func (s *fakeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.JournalEntry, error) {
	s.findDeadline, _ = ctx.Deadline()
	for i := range s.inserted {
		if s.inserted[i].ID == id {
			return &s.inserted[i], nil
		}
	}
	return nil, errors.New("not found")
}

type fakeEnhancer struct {
	text  string
	err   error
	calls int
}

func (e *fakeEnhancer) Enhance(ctx context.Context, journalText string) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

type fakeMirror struct {
	name    string
	saveErr error
	pathFn  func(name string) (string, error)
	saved   []models.JournalEntry
}

func (m *fakeMirror) Save(entry models.JournalEntry) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved = append(m.saved, entry)
	return m.name, nil
}

func (m *fakeMirror) Path(name string) (string, error) {
	if m.pathFn != nil {
		return m.pathFn(name)
	}
	return "", errors.New("not configured")
}

// --- helpers ---

func newRouter(store *fakeStore, enhancer *fakeEnhancer, mirror *fakeMirror) *chi.Mux {
	h := handlers.New(store, enhancer, mirror, nil)
	r := chi.NewRouter()
	routes.SetupRoutes(r, h, false)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
