package documents_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/backend/features/documents"
	"docchat/backend/internal/pdf"
)

type failingRepo struct {
	recordingRepo
}

func (r *failingRepo) List(ctx context.Context) ([]documents.Document, error) {
	return nil, errors.New("db down")
}

func TestHandler_Process(t *testing.T) {
	parser := &fakeParser{pages: map[string][]pdf.Page{
		"manual.pdf": {{Number: 1, Text: "content"}},
	}}
	svc := documents.NewService(&recordingRepo{}, parser, &fakeEmbedder{}, &recordingStore{}, 1000, 200, 0)
	handler := documents.NewHandler(svc, corpusDir(t, "manual.pdf"))

	req := httptest.NewRequest("POST", "/api/process-documents", nil)
	w := httptest.NewRecorder()
	handler.Process(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []documents.ProcessResult `json:"data"`
		Meta map[string]int            `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "manual", resp.Data[0].Name)
	assert.Equal(t, "processed", resp.Data[0].Status)
	assert.Equal(t, 1, resp.Meta["count"])
}

func TestHandler_Process_EmptyCorpus(t *testing.T) {
	svc := documents.NewService(&recordingRepo{}, &fakeParser{}, &fakeEmbedder{}, &recordingStore{}, 1000, 200, 0)
	handler := documents.NewHandler(svc, t.TempDir())

	req := httptest.NewRequest("POST", "/api/process-documents", nil)
	w := httptest.NewRecorder()
	handler.Process(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"count":0}}`, w.Body.String())
}

func TestHandler_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := &recordingRepo{upserts: []documents.Document{
			{Name: "manual", ChunkCount: 3, Status: "processed"},
		}}
		svc := documents.NewService(repo, &fakeParser{}, &fakeEmbedder{}, &recordingStore{}, 1000, 200, 0)
		handler := documents.NewHandler(svc, t.TempDir())

		req := httptest.NewRequest("GET", "/api/processed-documents", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []documents.Document `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "manual", resp.Data[0].Name)
	})

	t.Run("RepoError", func(t *testing.T) {
		svc := documents.NewService(&failingRepo{}, &fakeParser{}, &fakeEmbedder{}, &recordingStore{}, 1000, 200, 0)
		handler := documents.NewHandler(svc, t.TempDir())

		req := httptest.NewRequest("GET", "/api/processed-documents", nil)
		w := httptest.NewRecorder()
		handler.List(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	})
}
