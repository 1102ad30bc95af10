package repository

import (
	"context"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"student-records/models"
)

// PeriodStore has no update path; periods only arrive through import.
type PeriodStore struct {
	store
}

const insertPeriod = `INSERT INTO education_periods (student_id, start_date, end_date, group_name)
	VALUES (:student_id, :start_date, :end_date, :group_name)`

func (s *PeriodStore) Create(ctx context.Context, in models.EducationPeriodInput) error {
	if err := s.validate.Period(in); err != nil {
		return err
	}
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return err
	}

	p := models.EducationPeriod{StudentID: in.StudentID, StartDate: start, EndDate: end, GroupName: in.GroupName}
	if _, err := s.db.NamedExecContext(ctx, insertPeriod, p); err != nil {
		return classify("period", "create", 0, err)
	}
	slog.Debug("education period created", "student_id", in.StudentID, "group", in.GroupName)
	return nil
}

func (s *PeriodStore) selectPeriods() sq.SelectBuilder {
	return s.sql.Select("student_id", "start_date", "end_date", "group_name").From("education_periods")
}

func (s *PeriodStore) ListByStudent(ctx context.Context, studentID int64) ([]models.EducationPeriod, error) {
	periods := []models.EducationPeriod{}
	err := s.selectAll(ctx, "period", &periods, s.selectPeriods().Where(sq.Eq{"student_id": studentID}).OrderBy("start_date"))
	if err != nil {
		return nil, err
	}
	return periods, nil
}

func (s *PeriodStore) List(ctx context.Context) ([]models.EducationPeriod, error) {
	periods := []models.EducationPeriod{}
	if err := s.selectAll(ctx, "period", &periods, s.selectPeriods().OrderBy("student_id", "start_date")); err != nil {
		return nil, err
	}
	return periods, nil
}
