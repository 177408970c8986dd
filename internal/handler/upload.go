package handler

import (
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"

	"github.com/dukerupert/interviews/internal/livefeed"
	"github.com/dukerupert/interviews/internal/store"
	"github.com/dukerupert/interviews/internal/upload"
)

// UploadHandler accepts CV uploads. Requests carrying
// X-Requested-With: XMLHttpRequest get JSON; plain form posts are redirected
// back to the profile page with a status message.
type UploadHandler struct {
	uploads   *store.UploadStore
	storage   *upload.Storage
	extractor *upload.Extractor
	feed      *livefeed.Feed
	templates *template.Template
	logger    *slog.Logger
}

func NewUploadHandler(us *store.UploadStore, storage *upload.Storage, extractor *upload.Extractor, feed *livefeed.Feed, tmpl *template.Template, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploads: us, storage: storage, extractor: extractor, feed: feed, templates: tmpl, logger: logger}
}

// multipart overhead allowed on top of the file itself
const formOverhead = 64 * 1024

type profilePage struct {
	Title   string
	MaxSize string
	Alert   *Alert
	Uploads []uploadRow
}

type uploadRow struct {
	ID       int64
	Filename string
	Size     string
	Uploaded string
}

func (h *UploadHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	var alert *Alert
	q := r.URL.Query()
	switch {
	case q.Get("error") != "":
		alert = errorAlert(q.Get("error"))
	case q.Get("message") != "":
		alert = successAlert(q.Get("message"))
	}

	uploads, err := h.uploads.List()
	if err != nil {
		h.logger.Error("list cv uploads", "error", err)
		http.Error(w, "failed to load uploads", http.StatusInternalServerError)
		return
	}
	rows := make([]uploadRow, len(uploads))
	for i, u := range uploads {
		rows[i] = uploadRow{
			ID:       u.ID,
			Filename: u.Filename,
			Size:     upload.FormatSize(u.Size),
			Uploaded: u.CreatedAt.Format("Jan 2, 2006 15:04"),
		}
	}

	render(w, h.logger, h.templates, "profile.html", http.StatusOK, profilePage{
		Title:   "Upload CV",
		MaxSize: upload.FormatSize(upload.MaxFileSize),
		Alert:   alert,
		Uploads: rows,
	})
}

// Download serves a previously uploaded CV under its original filename.
func (h *UploadHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	u, err := h.uploads.GetByID(id)
	if err != nil {
		h.logger.Error("load cv upload", "id", id, "error", err)
		http.Error(w, "failed to load upload", http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.NotFound(w, r)
		return
	}

	f, err := h.storage.Open(u.StoredName)
	if errors.Is(err, fs.ErrNotExist) {
		h.logger.Warn("cv file missing", "id", id, "stored_name", u.StoredName)
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("open cv upload", "id", id, "error", err)
		http.Error(w, "failed to open upload", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": u.Filename}))
	http.ServeContent(w, r, u.Filename, u.CreatedAt, f)
}

func isProgrammatic(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	status, msg, err := h.accept(w, r)
	if err != nil {
		if status >= 500 {
			h.logger.Error("cv upload", "error", err)
		} else {
			h.logger.Info("cv upload rejected", "reason", err)
		}
		h.respond(w, r, status, "error", upload.Message(err))
		return
	}
	h.respond(w, r, status, "message", msg)
}

func (h *UploadHandler) accept(w http.ResponseWriter, r *http.Request) (int, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+formOverhead)
	if err := r.ParseMultipartForm(upload.MaxFileSize + formOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return http.StatusRequestEntityTooLarge, "", upload.ErrTooLarge
		}
		return http.StatusBadRequest, "", upload.ErrNoFile
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		return http.StatusBadRequest, "", upload.ErrNoFile
	}
	defer file.Close()

	if err := upload.Check(hdr.Filename, hdr.Header.Get("Content-Type"), hdr.Size); err != nil {
		if errors.Is(err, upload.ErrTooLarge) {
			return http.StatusRequestEntityTooLarge, "", err
		}
		return http.StatusBadRequest, "", err
	}

	stored, err := h.storage.Save(hdr.Filename, file)
	if errors.Is(err, upload.ErrTooLarge) {
		return http.StatusRequestEntityTooLarge, "", err
	}
	if err != nil {
		return http.StatusInternalServerError, "", err
	}

	existing, err := h.uploads.GetByDigest(stored.Digest)
	if err != nil {
		h.storage.Remove(stored.Name)
		return http.StatusInternalServerError, "", err
	}
	if existing != nil {
		h.storage.Remove(stored.Name)
		return http.StatusOK, "This CV has already been uploaded.", nil
	}

	if h.extractor.Enabled() {
		f, err := h.storage.Open(stored.Name)
		if err != nil {
			h.storage.Remove(stored.Name)
			return http.StatusInternalServerError, "", err
		}
		fields, err := h.extractor.Extract(r.Context(), hdr.Filename, f)
		f.Close()
		if err != nil {
			h.storage.Remove(stored.Name)
			return http.StatusBadGateway, "", err
		}
		h.logger.Info("cv extracted", "file", hdr.Filename, "fields", slices.Sorted(maps.Keys(fields)))
	}

	rec, err := h.uploads.Create(hdr.Filename, stored.Name, hdr.Header.Get("Content-Type"), stored.Size, stored.Digest)
	if err != nil {
		h.storage.Remove(stored.Name)
		return http.StatusInternalServerError, "", err
	}

	h.logger.Info("cv uploaded", "id", rec.ID, "size", stored.Size)
	if h.feed != nil {
		h.feed.Publish(livefeed.CVUploaded(rec.ID))
	}
	return http.StatusOK, "CV uploaded successfully!", nil
}

func (h *UploadHandler) respond(w http.ResponseWriter, r *http.Request, status int, key, text string) {
	if isProgrammatic(r) {
		writeJSON(w, status, map[string]string{key: text})
		return
	}
	http.Redirect(w, r, "/profile?"+url.Values{key: {text}}.Encode(), http.StatusSeeOther)
}
