// Package scheduler persists interview meetings, re-validating every save
// against the current meeting list before it reaches the store.
package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukerupert/interviews/internal/livefeed"
	"github.com/dukerupert/interviews/internal/model"
	"github.com/dukerupert/interviews/internal/schedule"
	"github.com/dukerupert/interviews/internal/store"
)

var ErrNotFound = errors.New("meeting not found")

// Publisher receives change events after a successful write.
type Publisher interface {
	Publish(livefeed.Change)
}

type Service struct {
	// writeMu serializes the read-validate-write sequence of Save and Delete
	// so two requests cannot both pass validation for the same slot.
	writeMu sync.Mutex

	store     *store.MeetingStore
	publisher Publisher
	logger    *slog.Logger
}

func NewService(s *store.MeetingStore, p Publisher, logger *slog.Logger) *Service {
	return &Service{store: s, publisher: p, logger: logger}
}

// Save creates m when m.ID is zero and updates it otherwise. Validation
// errors from the schedule package are returned unwrapped so callers can
// match them with errors.Is.
func (s *Service) Save(m schedule.Meeting) (*model.Meeting, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	previous := m.Date
	if m.ID != 0 {
		existing, err := s.store.GetByID(m.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		previous = existing.Date
		// Descriptive fields come from the application and are not editable
		// through the form.
		if m.ApplicantName == "" {
			m.ApplicantName = existing.ApplicantName
		}
		if m.JobTitle == "" {
			m.JobTitle = existing.JobTitle
		}
		if m.ApplicantID == nil && m.JobID == nil {
			m.ApplicantID, m.JobID = existing.ApplicantID, existing.JobID
		}
	}

	sameDay, err := s.store.ListByDate(m.Date)
	if err != nil {
		return nil, err
	}
	c := schedule.Candidate{EditingID: m.ID, Date: m.Date, StartTime: m.StartTime, EndTime: m.EndTime}
	if err := schedule.Validate(c, model.Schedules(sameDay)); err != nil {
		s.logger.Info("meeting rejected", "date", m.Date, "start", m.StartTime, "end", m.EndTime, "reason", err)
		return nil, err
	}

	var saved *model.Meeting
	action := livefeed.ActionCreated
	if m.ID == 0 {
		saved, err = s.store.Create(m)
	} else {
		action = livefeed.ActionUpdated
		saved, err = s.store.Update(m.ID, m)
	}
	if err != nil {
		return nil, fmt.Errorf("save meeting: %w", err)
	}

	s.logger.Info("meeting saved", "id", saved.ID, "action", action, "date", saved.Date)
	s.publish(action, saved, previous)
	return saved, nil
}

func (s *Service) Delete(id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.store.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("meeting deleted", "id", id)
	s.publish(livefeed.ActionDeleted, existing, existing.Date)
	return nil
}

func (s *Service) Get(id int64) (*model.Meeting, error) {
	m, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *Service) All() ([]schedule.Meeting, error) {
	meetings, err := s.store.List()
	if err != nil {
		return nil, err
	}
	return model.Schedules(meetings), nil
}

// Month is everything the schedule page shows for one cursor position.
type Month struct {
	Grid     schedule.Grid
	Upcoming []schedule.Meeting
	Today    schedule.Date
}

// Month builds the calendar for c and the upcoming list as of today.
func (s *Service) Month(c schedule.Cursor, today schedule.Date) (*Month, error) {
	first := c.First()
	last := c.Next().First().AddDays(-1)
	inMonth, err := s.store.ListBetween(first, last)
	if err != nil {
		return nil, err
	}
	from, err := s.store.ListFrom(today)
	if err != nil {
		return nil, err
	}
	return &Month{
		Grid:     schedule.BuildGrid(c, today, model.Schedules(inMonth)),
		Upcoming: schedule.Upcoming(model.Schedules(from), today),
		Today:    today,
	}, nil
}

func (s *Service) Day(d schedule.Date) ([]schedule.Meeting, error) {
	meetings, err := s.store.ListByDate(d)
	if err != nil {
		return nil, err
	}
	return model.Schedules(meetings), nil
}

func (s *Service) publish(action string, m *model.Meeting, previous schedule.Date) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(livefeed.MeetingChange(action, m.Meeting, previous))
}
