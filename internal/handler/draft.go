package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dukerupert/interviews/internal/store"
)

const emptyDraftMessage = "Please enter some text before saving as draft."

// DraftHandler keeps per-question answer drafts until the answer is submitted.
type DraftHandler struct {
	drafts    *store.DraftStore
	templates *template.Template
	logger    *slog.Logger
}

func NewDraftHandler(ds *store.DraftStore, tmpl *template.Template, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{drafts: ds, templates: tmpl, logger: logger}
}

// QuestionIDFromPath returns the last non-empty segment of a URL path, so
// "/questions/42" and "/questions/42/" both give "42".
func QuestionIDFromPath(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	return segs[len(segs)-1]
}

func questionID(r *http.Request) string {
	if id := r.PathValue("question_id"); id != "" {
		return id
	}
	return QuestionIDFromPath(r.URL.Path)
}

type answerPage struct {
	Title       string
	QuestionID  string
	Body        string
	DraftLoaded bool
	Alert       *Alert
}

func (h *DraftHandler) AnswerPage(w http.ResponseWriter, r *http.Request) {
	qid := questionID(r)
	page := answerPage{Title: "Answer question " + qid, QuestionID: qid}

	d, err := h.drafts.Get(qid)
	if err != nil {
		h.logger.Error("load draft", "question_id", qid, "error", err)
	} else if d != nil {
		page.Body = d.Body
		page.DraftLoaded = true
	}

	q := r.URL.Query()
	switch {
	case q.Get("error") != "":
		page.Alert = errorAlert(q.Get("error"))
	case q.Get("message") != "":
		page.Alert = successAlert(q.Get("message"))
	}
	render(w, h.logger, h.templates, "answer.html", http.StatusOK, page)
}

// SaveDraftForm is the no-script fallback for the "save as draft" button.
func (h *DraftHandler) SaveDraftForm(w http.ResponseWriter, r *http.Request) {
	qid := questionID(r)
	back := "/questions/" + url.PathEscape(qid) + "?"

	body := r.FormValue("answer")
	if strings.TrimSpace(body) == "" {
		http.Redirect(w, r, back+url.Values{"error": {emptyDraftMessage}}.Encode(), http.StatusSeeOther)
		return
	}
	if _, err := h.drafts.Save(qid, body); err != nil {
		h.logger.Error("save draft", "question_id", qid, "error", err)
		http.Error(w, "failed to save draft", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, back+url.Values{"message": {"Draft saved successfully!"}}.Encode(), http.StatusSeeOther)
}

// SubmitAnswer stores the answer and clears the draft.
func (h *DraftHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	qid := questionID(r)
	body := r.FormValue("answer")
	if strings.TrimSpace(body) == "" {
		http.Redirect(w, r, "/questions/"+url.PathEscape(qid)+"?"+url.Values{"error": {"Answer is required."}}.Encode(), http.StatusSeeOther)
		return
	}
	a, err := h.drafts.SubmitAnswer(qid, body)
	if err != nil {
		h.logger.Error("submit answer", "question_id", qid, "error", err)
		http.Error(w, "failed to submit answer", http.StatusInternalServerError)
		return
	}
	h.logger.Info("answer submitted", "question_id", qid, "answer_id", a.ID)
	http.Redirect(w, r, "/questions/"+url.PathEscape(qid)+"?"+url.Values{"message": {"Answer submitted."}}.Encode(), http.StatusSeeOther)
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	qid := questionID(r)
	d, err := h.drafts.Get(qid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load draft")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "no draft")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) Put(w http.ResponseWriter, r *http.Request) {
	qid := questionID(r)
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		writeError(w, http.StatusBadRequest, emptyDraftMessage)
		return
	}
	d, err := h.drafts.Save(qid, req.Body)
	if err != nil {
		h.logger.Error("save draft", "question_id", qid, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save draft")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Delete(questionID(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
