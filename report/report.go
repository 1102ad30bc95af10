// Package report lists the events of one group's students inside a date window.
package report

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"student-records/database"
	"student-records/models"
	"student-records/validation"
)

// ErrNoData is what callers show when a valid query matched nothing.
var ErrNoData = errors.New("no data for the selected group and period")

// Query is an inclusive window. Dates are dd.MM.yyyy or ISO.
type Query struct {
	GroupName string `json:"group"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

func (q Query) fields() []models.Field {
	return []models.Field{
		{Name: "group_name", Value: q.GroupName},
		{Name: "start_date", Value: q.Start, Kind: models.FieldDate},
		{Name: "end_date", Value: q.End, Kind: models.FieldDate},
	}
}

type Result struct {
	Query Query              `json:"query"`
	Rows  []models.ReportRow `json:"rows"`
}

// Empty reports a query that matched no events.
func (r *Result) Empty() bool {
	return len(r.Rows) == 0
}

// Columns is the header used when a report is written out.
var Columns = []string{"student_id", "last_name", "first_name", "middle_name", "event_date", "title", "description", "category"}

type Engine struct {
	db  *sqlx.DB
	sql sq.StatementBuilderType
}

func New(db *sqlx.DB) *Engine {
	return &Engine{
		db:  db,
		sql: sq.StatementBuilder.PlaceholderFormat(database.Placeholder(db)),
	}
}

// Run validates q and returns every event of the group's students dated
// within [Start, End], ordered by student name then date.
func (e *Engine) Run(ctx context.Context, q Query) (*Result, error) {
	q.GroupName = strings.TrimSpace(q.GroupName)
	if err := validation.Fields(q.fields()); err != nil {
		return nil, err
	}
	if err := validation.DateRange(q.Start, q.End); err != nil {
		return nil, err
	}
	start := models.MustParseDate(q.Start)
	end := models.MustParseDate(q.End)

	query, args, err := e.sql.
		Select("s.id AS student_id", "s.last_name", "s.first_name", "s.middle_name",
			"e.date AS event_date", "e.title", "e.description", "e.category").
		From("students s").
		Join("student_groups g ON g.id = s.group_id").
		Join("events e ON e.student_id = s.id").
		Where(sq.Eq{"g.name": q.GroupName}).
		Where(sq.GtOrEq{"e.date": start.ISO()}).
		Where(sq.LtOrEq{"e.date": end.ISO()}).
		OrderBy("s.last_name", "s.first_name", "s.middle_name", "s.id", "e.date", "e.id").
		ToSql()
	if err != nil {
		return nil, &models.StorageError{Op: "report", Err: err}
	}

	res := &Result{Query: q, Rows: []models.ReportRow{}}
	if err := e.db.SelectContext(ctx, &res.Rows, query, args...); err != nil {
		return nil, &models.StorageError{Op: "report", Err: err}
	}

	slog.Debug("report built", "group", q.GroupName, "start", start.ISO(), "end", end.ISO(), "rows", len(res.Rows))
	return res, nil
}

// Table flattens the result into display strings in Columns order.
func (r *Result) Table() [][]string {
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			models.FormatID(row.StudentID),
			row.LastName,
			row.FirstName,
			row.MiddleName,
			row.EventDate.String(),
			row.Title,
			row.Description,
			row.Category,
		})
	}
	return rows
}
