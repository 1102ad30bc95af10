package repository

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"student-records/models"
)

type EventStore struct {
	store
}

var eventColumns = []string{"student_id", "date", "title", "description", "category"}

func (s *EventStore) selectEvents() sq.SelectBuilder {
	return s.sql.Select("id", "student_id", "date", "title", "description", "category").From("events")
}

func eventValues(in models.EventInput, date models.Date) []any {
	return []any{in.StudentID, date, in.Title, in.Description, in.Category}
}

// Create inserts an event. An unknown student yields a ReferentialError.
func (s *EventStore) Create(ctx context.Context, in models.EventInput) (int64, error) {
	if err := s.validate.Event(in); err != nil {
		return 0, err
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return 0, err
	}

	id, err := s.insert(ctx, "event", s.sql.Insert("events").Columns(eventColumns...).Values(eventValues(in, date)...))
	if err != nil {
		return 0, err
	}
	slog.Debug("event created", "id", id, "student_id", in.StudentID)
	return id, nil
}

func (s *EventStore) Update(ctx context.Context, id int64, in models.EventInput) error {
	if err := s.validate.Event(in); err != nil {
		return err
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return err
	}

	b := s.sql.Update("events").Where(sq.Eq{"id": id})
	for i, v := range eventValues(in, date) {
		b = b.Set(eventColumns[i], v)
	}
	if err := s.exec(ctx, "event", "update", id, b); err != nil {
		return err
	}
	slog.Debug("event updated", "id", id)
	return nil
}

func (s *EventStore) Delete(ctx context.Context, id int64) error {
	if err := s.exec(ctx, "event", "delete", id, s.sql.Delete("events").Where(sq.Eq{"id": id})); err != nil {
		return err
	}
	slog.Debug("event deleted", "id", id)
	return nil
}

func (s *EventStore) Get(ctx context.Context, id int64) (models.Event, error) {
	var e models.Event
	err := s.getOne(ctx, "event", id, &e, s.selectEvents().Where(sq.Eq{"id": id}))
	return e, err
}

func (s *EventStore) List(ctx context.Context, f Filter) ([]models.Event, error) {
	events := []models.Event{}
	if err := s.selectAll(ctx, "event", &events, s.selectEvents().OrderBy("id")); err != nil {
		return nil, err
	}
	return applyFilter(events, f)
}

// ListByStudent returns the student's events in id order. A student with no
// events, or no such student, gives an empty list.
func (s *EventStore) ListByStudent(ctx context.Context, studentID int64) ([]models.Event, error) {
	events := []models.Event{}
	err := s.selectAll(ctx, "event", &events, s.selectEvents().Where(sq.Eq{"student_id": studentID}).OrderBy("id"))
	if err != nil {
		return nil, err
	}
	return events, nil
}
