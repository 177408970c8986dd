// Package schedule holds the pure scheduling logic behind the interview
// calendar: month grids, the upcoming list, overlap validation and the
// create/edit form state. Nothing here performs I/O.
package schedule

// Meeting is a single scheduled interview slot.
//
// ApplicantName, JobTitle, ApplicantID and JobID are only set for meetings
// created from a job application.
type Meeting struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Date          Date      `json:"date"`
	StartTime     TimeOfDay `json:"start_time"`
	EndTime       TimeOfDay `json:"end_time"`
	ApplicantName string    `json:"applicant_name,omitempty"`
	JobTitle      string    `json:"job_title,omitempty"`
	ApplicantID   *int64    `json:"applicant_id,omitempty"`
	JobID         *int64    `json:"job_id,omitempty"`
}

// TimeRange renders "09:00 - 10:00".
func (m Meeting) TimeRange() string {
	return m.StartTime.String() + " - " + m.EndTime.String()
}

// HasApplication reports whether both linking ids are present.
func (m Meeting) HasApplication() bool {
	return m.ApplicantID != nil && m.JobID != nil
}
