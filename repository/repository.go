// Package repository persists groups, students, events and education periods.
//
// Every mutation validates first and then runs as a single statement, so a
// rejected record never touches the store. Driver errors come back as the
// error kinds in models.
package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"student-records/database"
	"student-records/models"
	"student-records/validation"
)

type Repository struct {
	Groups   *GroupStore
	Students *StudentStore
	Events   *EventStore
	Periods  *PeriodStore

	db *sqlx.DB
}

// Reader is the read-only view handed to the mirror.
type Reader interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsByStudent(ctx context.Context, studentID int64) ([]models.Event, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListPeriods(ctx context.Context) ([]models.EducationPeriod, error)
	Ping(ctx context.Context) error
}

var _ Reader = (*Repository)(nil)

func New(db *sqlx.DB) *Repository {
	s := store{
		db:       db,
		sql:      sq.StatementBuilder.PlaceholderFormat(database.Placeholder(db)),
		validate: validation.New(lookup{db: db}),
	}
	r := &Repository{
		Groups:   &GroupStore{store: s},
		Students: &StudentStore{store: s},
		Events:   &EventStore{store: s},
		Periods:  &PeriodStore{store: s},
		db:       db,
	}
	r.Students.events = r.Events
	r.Students.periods = r.Periods
	return r
}

// Ping checks that the store still answers.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &models.StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (r *Repository) ListStudents(ctx context.Context) ([]models.Student, error) {
	return r.Students.List(ctx, Filter{})
}

func (r *Repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	return r.Events.List(ctx, Filter{})
}

func (r *Repository) ListEventsByStudent(ctx context.Context, studentID int64) ([]models.Event, error) {
	return r.Events.ListByStudent(ctx, studentID)
}

func (r *Repository) ListGroups(ctx context.Context) ([]models.Group, error) {
	return r.Groups.List(ctx, Filter{})
}

func (r *Repository) ListPeriods(ctx context.Context) ([]models.EducationPeriod, error) {
	return r.Periods.List(ctx)
}

// store is the state shared by the per-entity stores.
type store struct {
	db       *sqlx.DB
	sql      sq.StatementBuilderType
	validate *validation.Engine
}

// selectAll runs a built SELECT into dest.
func (s store) selectAll(ctx context.Context, entity string, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return &models.StorageError{Op: entity + " list", Err: err}
	}
	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return classify(entity, "list", 0, err)
	}
	return nil
}

// getOne runs a built SELECT expected to return exactly one row.
func (s store) getOne(ctx context.Context, entity string, id int64, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return &models.StorageError{Op: entity + " get", Err: err}
	}
	if err := s.db.GetContext(ctx, dest, query, args...); err != nil {
		return classify(entity, "get", id, err)
	}
	return nil
}

// insert runs a built INSERT ... RETURNING id.
func (s store) insert(ctx context.Context, entity string, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, &models.StorageError{Op: entity + " create", Err: err}
	}
	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, classify(entity, "create", 0, err)
	}
	return id, nil
}

// exec runs a built UPDATE or DELETE against one id.
func (s store) exec(ctx context.Context, entity, op string, id int64, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return &models.StorageError{Op: entity + " " + op, Err: err}
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(entity, op, id, err)
	}
	return notFoundUnlessChanged(entity, op, id, res)
}

// parseDate converts an already validated display date for storage.
func parseDate(field, s string) (models.Date, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, &models.ValidationError{Field: field, Rule: models.RuleDateFormat}
	}
	return d, nil
}
