package model

import "time"

type CVUpload struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	StoredName  string    `json:"stored_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Digest      string    `json:"digest"`
	CreatedAt   time.Time `json:"created_at"`
}
