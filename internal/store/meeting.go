package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/interviews/internal/model"
	"github.com/dukerupert/interviews/internal/schedule"
)

type MeetingStore struct {
	db *sql.DB
}

func NewMeetingStore(db *sql.DB) *MeetingStore {
	return &MeetingStore{db: db}
}

const meetingCols = `id, title, meeting_date, start_time, end_time, applicant_name, job_title, applicant_id, job_id, created_at, updated_at`

func scanMeeting(scanner interface{ Scan(...any) error }) (*model.Meeting, error) {
	var m model.Meeting
	var date, start, end string
	var applicantID, jobID sql.NullInt64

	err := scanner.Scan(
		&m.ID, &m.Title, &date, &start, &end, &m.ApplicantName, &m.JobTitle,
		&applicantID, &jobID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if m.Date, err = schedule.ParseDate(date); err != nil {
		return nil, fmt.Errorf("meeting %d: %w", m.ID, err)
	}
	if m.StartTime, err = schedule.ParseTimeOfDay(start); err != nil {
		return nil, fmt.Errorf("meeting %d: %w", m.ID, err)
	}
	if m.EndTime, err = schedule.ParseTimeOfDay(end); err != nil {
		return nil, fmt.Errorf("meeting %d: %w", m.ID, err)
	}
	if applicantID.Valid {
		m.ApplicantID = &applicantID.Int64
	}
	if jobID.Valid {
		m.JobID = &jobID.Int64
	}
	return &m, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// Create inserts m, ignoring its ID.
func (s *MeetingStore) Create(m schedule.Meeting) (*model.Meeting, error) {
	result, err := s.db.Exec(
		`INSERT INTO meetings (title, meeting_date, start_time, end_time, applicant_name, job_title, applicant_id, job_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Date.String(), m.StartTime.String(), m.EndTime.String(),
		m.ApplicantName, m.JobTitle, nullInt(m.ApplicantID), nullInt(m.JobID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert meeting: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// GetByID returns nil, nil when no meeting has the id.
func (s *MeetingStore) GetByID(id int64) (*model.Meeting, error) {
	row := s.db.QueryRow(`SELECT `+meetingCols+` FROM meetings WHERE id = ?`, id)
	m, err := scanMeeting(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return m, nil
}

func (s *MeetingStore) List() ([]model.Meeting, error) {
	return s.query(`SELECT ` + meetingCols + ` FROM meetings ORDER BY meeting_date, start_time, id`)
}

func (s *MeetingStore) ListByDate(d schedule.Date) ([]model.Meeting, error) {
	return s.query(`SELECT `+meetingCols+` FROM meetings WHERE meeting_date = ? ORDER BY start_time, id`, d.String())
}

// ListFrom returns meetings dated d or later.
func (s *MeetingStore) ListFrom(d schedule.Date) ([]model.Meeting, error) {
	return s.query(`SELECT `+meetingCols+` FROM meetings WHERE meeting_date >= ? ORDER BY meeting_date, start_time, id`, d.String())
}

// ListBetween returns meetings dated within [from, to].
func (s *MeetingStore) ListBetween(from, to schedule.Date) ([]model.Meeting, error) {
	return s.query(
		`SELECT `+meetingCols+` FROM meetings WHERE meeting_date >= ? AND meeting_date <= ? ORDER BY meeting_date, start_time, id`,
		from.String(), to.String(),
	)
}

func (s *MeetingStore) query(q string, args ...any) ([]model.Meeting, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []model.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}

func (s *MeetingStore) Update(id int64, m schedule.Meeting) (*model.Meeting, error) {
	_, err := s.db.Exec(
		`UPDATE meetings
		 SET title = ?, meeting_date = ?, start_time = ?, end_time = ?, applicant_name = ?, job_title = ?, applicant_id = ?, job_id = ?
		 WHERE id = ?`,
		m.Title, m.Date.String(), m.StartTime.String(), m.EndTime.String(),
		m.ApplicantName, m.JobTitle, nullInt(m.ApplicantID), nullInt(m.JobID), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	return s.GetByID(id)
}

func (s *MeetingStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM meetings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	return nil
}
