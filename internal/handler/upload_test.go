package handler

import (
	"bytes"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/interviews/internal/database"
	"github.com/dukerupert/interviews/internal/store"
	"github.com/dukerupert/interviews/internal/upload"
)

func TestUploadLogsExtractedFields(t *testing.T) {
	extract := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"skills":["go"],"name":"Sam Doe","email":"sam@example.com"}`))
	}))
	defer extract.Close()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	storage, err := upload.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	extractor := upload.NewExtractor(upload.ExtractConfig{URL: extract.URL, Timeout: 5 * time.Second})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := NewUploadHandler(store.NewUploadStore(db), storage, extractor, nil, nil, logger)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cv.pdf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("%PDF-1.4 extracted"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload_cv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	out := logs.String()
	if !strings.Contains(out, "cv extracted") || !strings.Contains(out, "fields=\"[email name skills]\"") {
		t.Errorf("extraction fields not logged: %s", out)
	}
}
