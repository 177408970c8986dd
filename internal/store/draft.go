package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/interviews/internal/model"
)

type DraftStore struct {
	db *sql.DB
}

func NewDraftStore(db *sql.DB) *DraftStore {
	return &DraftStore{db: db}
}

// Save inserts or replaces the draft for questionID.
func (s *DraftStore) Save(questionID, body string) (*model.Draft, error) {
	_, err := s.db.Exec(
		`INSERT INTO answer_drafts (question_id, body) VALUES (?, ?)
		 ON CONFLICT(question_id) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		questionID, body,
	)
	if err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return s.Get(questionID)
}

// Get returns nil, nil when there is no draft.
func (s *DraftStore) Get(questionID string) (*model.Draft, error) {
	var d model.Draft
	err := s.db.QueryRow(
		`SELECT question_id, body, updated_at FROM answer_drafts WHERE question_id = ?`, questionID,
	).Scan(&d.QuestionID, &d.Body, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return &d, nil
}

func (s *DraftStore) Delete(questionID string) error {
	if _, err := s.db.Exec(`DELETE FROM answer_drafts WHERE question_id = ?`, questionID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// SubmitAnswer records the answer and clears the question's draft in one
// transaction.
func (s *DraftStore) SubmitAnswer(questionID, body string) (*model.Answer, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO answers (question_id, body) VALUES (?, ?)`, questionID, body)
	if err != nil {
		return nil, fmt.Errorf("insert answer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM answer_drafts WHERE question_id = ?`, questionID); err != nil {
		return nil, fmt.Errorf("clear draft: %w", err)
	}

	var a model.Answer
	err = tx.QueryRow(`SELECT id, question_id, body, created_at FROM answers WHERE id = ?`, id).
		Scan(&a.ID, &a.QuestionID, &a.Body, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get answer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &a, nil
}
