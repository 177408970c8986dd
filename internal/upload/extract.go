package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ErrExtractUnavailable wraps transport failures and non-2xx answers from the
// extraction service.
var ErrExtractUnavailable = errors.New("cv extraction service unavailable")

// ExtractConfig points at a CV extraction service. An empty URL disables
// forwarding.
type ExtractConfig struct {
	URL     string
	Timeout time.Duration
}

// Extractor posts CV files to {URL}/extract-cv as multipart field "file".
type Extractor struct {
	url        string
	httpClient *http.Client
}

func NewExtractor(cfg ExtractConfig) *Extractor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Extractor{
		url:        strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (e *Extractor) Enabled() bool {
	return e != nil && e.url != ""
}

// Extract sends the file and returns the decoded JSON body. It does not
// retry.
func (e *Extractor) Extract(ctx context.Context, filename string, r io.Reader) (map[string]any, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/extract-cv", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrExtractUnavailable, resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return out, nil
}
