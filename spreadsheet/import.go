package spreadsheet

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"student-records/models"
	"student-records/repository"
)

// RowFailure explains why one data row was not stored. Line is the 1-based
// sheet row, so the header is line 1.
type RowFailure struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

type ImportResult struct {
	ImportID        uuid.UUID    `json:"import_id"`
	Total           int          `json:"total"`
	Inserted        int          `json:"inserted"`
	Failed          []RowFailure `json:"failed"`
	UnmatchedGroups []string     `json:"unmatched_groups"`
}

func newResult() *ImportResult {
	return &ImportResult{
		ImportID:        uuid.New(),
		Failed:          []RowFailure{},
		UnmatchedGroups: []string{},
	}
}

func (r *ImportResult) fail(line int, err error) {
	f := RowFailure{Line: line, Message: err.Error()}
	if ve, ok := models.AsValidation(err); ok {
		f.Field, f.Rule, f.Message = ve.Field, ve.Rule, ve.Message()
	}
	r.Failed = append(r.Failed, f)
}

func (r *ImportResult) unmatched(name string) {
	for _, n := range r.UnmatchedGroups {
		if n == name {
			return
		}
	}
	r.UnmatchedGroups = append(r.UnmatchedGroups, name)
}

// Importer stores spreadsheet rows through the repository, one row at a
// time. A bad row is recorded and skipped; earlier and later rows still land.
type Importer struct {
	repo *repository.Repository
}

func NewImporter(repo *repository.Repository) *Importer {
	return &Importer{repo: repo}
}

// ImportStudents creates one student per data row. Group names are resolved
// against stored groups; a name that matches nothing leaves the student
// without a group and is listed in UnmatchedGroups.
func (im *Importer) ImportStudents(ctx context.Context, r io.Reader, format Format) (*ImportResult, error) {
	rows, err := ReadTable(r, format)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &models.ValidationError{Field: StudentColumns[0], Rule: models.RuleMissingColumn}
	}
	h, err := parseHeader(rows[0], StudentColumns[:7])
	if err != nil {
		return nil, err
	}

	res := newResult()
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		line := i + 2
		res.Total++

		in := models.StudentInput{
			LastName:   h.get(row, "last_name"),
			FirstName:  h.get(row, "first_name"),
			MiddleName: h.get(row, "middle_name"),
			BirthDate:  h.get(row, "birth_date"),
			Phone:      h.get(row, "phone"),
			Email:      h.get(row, "email"),
			Address:    h.get(row, "address"),
		}

		ref, err := im.repo.Groups.ResolveName(ctx, h.get(row, "group_name"))
		if err != nil {
			res.fail(line, err)
			continue
		}
		if ref.Unmatched() {
			res.unmatched(ref.Name)
		}

		if _, err := im.repo.Students.Create(ctx, in.WithGroup(ref)); err != nil {
			res.fail(line, err)
			continue
		}
		res.Inserted++
	}

	slog.Info("students imported",
		"import_id", res.ImportID,
		"total", res.Total,
		"inserted", res.Inserted,
		"failed", len(res.Failed),
		"unmatched_groups", len(res.UnmatchedGroups))
	return res, nil
}

// ImportPeriods creates education periods for the students owning the
// emails in the sheet. An unknown email fails that row only.
func (im *Importer) ImportPeriods(ctx context.Context, r io.Reader, format Format) (*ImportResult, error) {
	rows, err := ReadTable(r, format)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &models.ValidationError{Field: PeriodColumns[0], Rule: models.RuleMissingColumn}
	}
	h, err := parseHeader(rows[0], PeriodColumns)
	if err != nil {
		return nil, err
	}

	res := newResult()
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		line := i + 2
		res.Total++

		email := h.get(row, "student_email")
		student, err := im.repo.Students.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				err = &models.ValidationError{Field: "student_email", Rule: models.RuleUnknownEmail}
			}
			res.fail(line, err)
			continue
		}

		in := models.EducationPeriodInput{
			StudentID: student.ID,
			StartDate: h.get(row, "start_date"),
			EndDate:   h.get(row, "end_date"),
			GroupName: h.get(row, "group_name"),
		}
		if err := im.repo.Periods.Create(ctx, in); err != nil {
			res.fail(line, err)
			continue
		}
		res.Inserted++
	}

	slog.Info("education periods imported",
		"import_id", res.ImportID,
		"total", res.Total,
		"inserted", res.Inserted,
		"failed", len(res.Failed))
	return res, nil
}
