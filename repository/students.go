package repository

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"student-records/models"
)

type StudentStore struct {
	store
	events  *EventStore
	periods *PeriodStore
}

var studentColumns = []string{"last_name", "first_name", "middle_name", "birth_date", "phone", "email", "address", "group_id"}

func (s *StudentStore) selectStudents() sq.SelectBuilder {
	return s.sql.
		Select("s.id", "s.last_name", "s.first_name", "s.middle_name", "s.birth_date",
			"s.phone", "s.email", "s.address", "s.group_id", "g.name AS group_name").
		From("students s").
		LeftJoin("student_groups g ON g.id = s.group_id")
}

func studentValues(in models.StudentInput, birth models.Date) []any {
	return []any{in.LastName, in.FirstName, in.MiddleName, birth, in.Phone, in.Email, in.Address, in.GroupID}
}

// Create validates and inserts a student. A GroupID that does not exist
// yields a ReferentialError.
func (s *StudentStore) Create(ctx context.Context, in models.StudentInput) (int64, error) {
	if err := s.validate.Student(ctx, in, 0); err != nil {
		return 0, err
	}
	birth, err := parseDate("birth_date", in.BirthDate)
	if err != nil {
		return 0, err
	}

	id, err := s.insert(ctx, "student", s.sql.Insert("students").Columns(studentColumns...).Values(studentValues(in, birth)...))
	if err != nil {
		return 0, err
	}
	slog.Debug("student created", "id", id, "email", in.Email)
	return id, nil
}

// Update replaces every column of the student.
func (s *StudentStore) Update(ctx context.Context, id int64, in models.StudentInput) error {
	if err := s.validate.Student(ctx, in, id); err != nil {
		return err
	}
	birth, err := parseDate("birth_date", in.BirthDate)
	if err != nil {
		return err
	}

	b := s.sql.Update("students").Where(sq.Eq{"id": id})
	for i, v := range studentValues(in, birth) {
		b = b.Set(studentColumns[i], v)
	}
	if err := s.exec(ctx, "student", "update", id, b); err != nil {
		return err
	}
	slog.Debug("student updated", "id", id)
	return nil
}

// Delete removes a student together with its events and education periods.
func (s *StudentStore) Delete(ctx context.Context, id int64) error {
	if err := s.exec(ctx, "student", "delete", id, s.sql.Delete("students").Where(sq.Eq{"id": id})); err != nil {
		return err
	}
	slog.Debug("student deleted", "id", id)
	return nil
}

func (s *StudentStore) Get(ctx context.Context, id int64) (models.Student, error) {
	var st models.Student
	err := s.getOne(ctx, "student", id, &st, s.selectStudents().Where(sq.Eq{"s.id": id}))
	return st, err
}

func (s *StudentStore) List(ctx context.Context, f Filter) ([]models.Student, error) {
	students := []models.Student{}
	if err := s.selectAll(ctx, "student", &students, s.selectStudents().OrderBy("s.id")); err != nil {
		return nil, err
	}
	return applyFilter(students, f)
}

// FindByEmail returns NotFoundError when no student owns the address.
func (s *StudentStore) FindByEmail(ctx context.Context, email string) (models.Student, error) {
	var st models.Student
	err := s.getOne(ctx, "student", 0, &st, s.selectStudents().Where(sq.Eq{"s.email": email}))
	return st, err
}

// Detail loads a student with its events and education periods.
func (s *StudentStore) Detail(ctx context.Context, id int64) (models.StudentDetail, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return models.StudentDetail{}, err
	}
	events, err := s.events.ListByStudent(ctx, id)
	if err != nil {
		return models.StudentDetail{}, err
	}
	periods, err := s.periods.ListByStudent(ctx, id)
	if err != nil {
		return models.StudentDetail{}, err
	}
	return models.StudentDetail{Student: st, Events: events, Periods: periods}, nil
}
