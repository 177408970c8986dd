package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/interviews/internal/model"
)

type UploadStore struct {
	db *sql.DB
}

func NewUploadStore(db *sql.DB) *UploadStore {
	return &UploadStore{db: db}
}

const uploadCols = `id, filename, stored_name, content_type, size, digest, created_at`

func scanUpload(scanner interface{ Scan(...any) error }) (*model.CVUpload, error) {
	var u model.CVUpload
	if err := scanner.Scan(&u.ID, &u.Filename, &u.StoredName, &u.ContentType, &u.Size, &u.Digest, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UploadStore) Create(filename, storedName, contentType string, size int64, digest string) (*model.CVUpload, error) {
	result, err := s.db.Exec(
		`INSERT INTO cv_uploads (filename, stored_name, content_type, size, digest) VALUES (?, ?, ?, ?, ?)`,
		filename, storedName, contentType, size, digest,
	)
	if err != nil {
		return nil, fmt.Errorf("insert cv upload: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UploadStore) GetByID(id int64) (*model.CVUpload, error) {
	u, err := scanUpload(s.db.QueryRow(`SELECT `+uploadCols+` FROM cv_uploads WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cv upload: %w", err)
	}
	return u, nil
}

// GetByDigest returns nil, nil when no upload has the digest.
func (s *UploadStore) GetByDigest(digest string) (*model.CVUpload, error) {
	u, err := scanUpload(s.db.QueryRow(`SELECT `+uploadCols+` FROM cv_uploads WHERE digest = ?`, digest))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cv upload by digest: %w", err)
	}
	return u, nil
}

func (s *UploadStore) List() ([]model.CVUpload, error) {
	rows, err := s.db.Query(`SELECT ` + uploadCols + ` FROM cv_uploads ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query cv uploads: %w", err)
	}
	defer rows.Close()

	var uploads []model.CVUpload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cv upload: %w", err)
		}
		uploads = append(uploads, *u)
	}
	return uploads, rows.Err()
}
