package model

import "time"

type Draft struct {
	QuestionID string    `json:"question_id"`
	Body       string    `json:"body"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Answer struct {
	ID         int64     `json:"id"`
	QuestionID string    `json:"question_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
