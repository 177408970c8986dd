package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		want        error
	}{
		{"pdf extension", "cv.pdf", "application/octet-stream", 100, nil},
		{"upper case extension", "CV.PDF", "", 100, nil},
		{"pdf content type", "resume", "application/pdf", 100, nil},
		{"content type with params", "resume", "application/pdf; charset=binary", 100, nil},
		{"word document", "cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 100, ErrInvalidType},
		{"exactly max size", "cv.pdf", "application/pdf", MaxFileSize, nil},
		{"over max size", "cv.pdf", "application/pdf", MaxFileSize + 1, ErrTooLarge},
		{"no file", "", "", 0, ErrNoFile},
	}

	for _, tt := range tests {
		err := Check(tt.filename, tt.contentType, tt.size)
		if tt.want == nil && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 bytes"},
		{1536, "1.5 KB"},
		{MaxFileSize, "2.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.n); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
	if got := Message(ErrTooLarge); got != "File size exceeds 2.0 MB limit" {
		t.Errorf("too large message = %q", got)
	}
}

func TestStorageSave(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	first, err := s.Save("My CV.pdf", strings.NewReader("%PDF-1.7 hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.Size != int64(len("%PDF-1.7 hello")) {
		t.Errorf("size = %d", first.Size)
	}
	if len(first.Digest) != 64 {
		t.Errorf("digest length = %d, want 64", len(first.Digest))
	}
	if _, err := os.Stat(filepath.Join(dir, first.Name)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	second, err := s.Save("My CV.pdf", strings.NewReader("%PDF-1.7 hello"))
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if second.Digest != first.Digest {
		t.Error("same content should give the same digest")
	}
	if second.Name == first.Name {
		t.Error("stored names should be unique")
	}

	if err := s.Remove(second.Name); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, second.Name)); !os.IsNotExist(err) {
		t.Error("removed file still present")
	}
}

func TestStorageSaveTooLarge(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewStorage(dir)

	_, err := s.Save("big.pdf", bytes.NewReader(make([]byte, MaxFileSize+10)))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want too large", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("oversized file left behind: %d entries", len(entries))
	}
}

func TestExtractorPostsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract-cv" {
			t.Errorf("path = %q, want /extract-cv", r.URL.Path)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "cv.pdf" || string(data) != "pdf-bytes" {
			t.Errorf("got %q with %q", hdr.Filename, data)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cv_data":{"skills":["go"]}}`))
	}))
	defer srv.Close()

	e := NewExtractor(ExtractConfig{URL: srv.URL + "/"})
	if !e.Enabled() {
		t.Fatal("extractor should be enabled")
	}
	out, err := e.Extract(context.Background(), "cv.pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, ok := out["cv_data"]; !ok {
		t.Errorf("response = %v", out)
	}
}

func TestExtractorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := NewExtractor(ExtractConfig{URL: srv.URL})
	_, err := e.Extract(context.Background(), "cv.pdf", strings.NewReader("x"))
	if !errors.Is(err, ErrExtractUnavailable) {
		t.Errorf("err = %v, want unavailable", err)
	}
}

func TestExtractorDisabled(t *testing.T) {
	if NewExtractor(ExtractConfig{}).Enabled() {
		t.Error("empty URL should disable the extractor")
	}
	var e *Extractor
	if e.Enabled() {
		t.Error("nil extractor should be disabled")
	}
}

func TestStoredName(t *testing.T) {
	tests := []struct {
		original string
		suffix   string
	}{
		{"My CV.pdf", "-my-cv.pdf"},
		{"../../etc/Jöhn Doe (final).PDF", "-john-doe-final.pdf"},
		{"???.pdf", ".pdf"},
	}
	for _, tt := range tests {
		got := storedName(tt.original)
		if !strings.HasSuffix(got, tt.suffix) {
			t.Errorf("storedName(%q) = %q, want suffix %q", tt.original, got, tt.suffix)
		}
		if strings.ContainsAny(got, "/ ") {
			t.Errorf("storedName(%q) = %q is not a safe file name", tt.original, got)
		}
	}
	if long := storedName(strings.Repeat("a", 200) + ".pdf"); len(long) > 36+1+maxSlugLen+4 {
		t.Errorf("long name not truncated: %d bytes", len(long))
	}
}
