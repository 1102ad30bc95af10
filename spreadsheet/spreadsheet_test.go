package spreadsheet

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/database"
	"student-records/models"
	"student-records/report"
	"student-records/repository"
)

func newRepo(t *testing.T) *repository.Repository {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "sheet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.New(db)
}

func seed(t *testing.T, repo *repository.Repository) []models.Student {
	t.Helper()
	ctx := context.Background()
	gid, err := repo.Groups.Create(ctx, models.GroupInput{Name: "ПИ-101"})
	require.NoError(t, err)

	inputs := []models.StudentInput{
		{LastName: "Иванов", FirstName: "Иван", MiddleName: "Иванович", BirthDate: "01.09.2003",
			Phone: "+79991234567", Email: "ivanov@example.com", Address: "Kazan, Kremlyovskaya 18", GroupID: &gid},
		{LastName: "Петрова", FirstName: "Мария", MiddleName: "Сергеевна", BirthDate: "29.02.2004",
			Phone: "89997654321", Email: "petrova@example.com", Address: "Kazan, \"Baumana\", 5"},
	}
	for _, in := range inputs {
		_, err := repo.Students.Create(ctx, in)
		require.NoError(t, err)
	}
	students, err := repo.Students.List(ctx, repository.Filter{})
	require.NoError(t, err)
	return students
}

func sheetRows(students []models.Student) [][]string {
	return studentRows(students)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("/tmp/Students.XLSX")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)

	f, err = FormatFromPath("export.csv")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)

	_, err = FormatFromPath("notes.txt")
	ve, ok := models.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, models.RuleFileFormat, ve.Rule)
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{XLSX, CSV} {
		t.Run(string(format), func(t *testing.T) {
			src := newRepo(t)
			exported := seed(t, src)

			var buf bytes.Buffer
			require.NoError(t, ExportStudents(&buf, format, exported))

			dst := newRepo(t)
			_, err := dst.Groups.Create(context.Background(), models.GroupInput{Name: "ПИ-101"})
			require.NoError(t, err)

			res, err := NewImporter(dst).ImportStudents(context.Background(), &buf, format)
			require.NoError(t, err)
			assert.Equal(t, 2, res.Total)
			assert.Equal(t, 2, res.Inserted)
			assert.Empty(t, res.Failed)
			assert.Empty(t, res.UnmatchedGroups)

			imported, err := dst.Students.List(context.Background(), repository.Filter{})
			require.NoError(t, err)
			assert.Equal(t, sheetRows(exported), sheetRows(imported))
		})
	}
}

func TestRoundTrip_KeepsPadding(t *testing.T) {
	for _, format := range []Format{XLSX, CSV} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			src := newRepo(t)
			_, err := src.Students.Create(ctx, models.StudentInput{
				LastName: "Ivanov ", FirstName: " Ivan", MiddleName: "Ivanovich", BirthDate: "01.09.2003",
				Phone: "+79991234567", Email: "ivanov@example.com", Address: "Kazan, 18 ",
			})
			require.NoError(t, err)
			exported, err := src.Students.List(ctx, repository.Filter{})
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, ExportStudents(&buf, format, exported))

			dst := newRepo(t)
			res, err := NewImporter(dst).ImportStudents(ctx, &buf, format)
			require.NoError(t, err)
			require.Empty(t, res.Failed)

			imported, err := dst.Students.List(ctx, repository.Filter{})
			require.NoError(t, err)
			assert.Equal(t, sheetRows(exported), sheetRows(imported))
			assert.Equal(t, "Ivanov ", imported[0].LastName)
			assert.Equal(t, "Kazan, 18 ", imported[0].Address)
		})
	}
}

func TestExportStudents_CSVLayout(t *testing.T) {
	students := seed(t, newRepo(t))

	var buf bytes.Buffer
	require.NoError(t, ExportStudents(&buf, CSV, students))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "last_name,first_name,middle_name,birth_date,phone,email,address,group_name", lines[0])
	assert.Equal(t, "Иванов,Иван,Иванович,01.09.2003,+79991234567,ivanov@example.com,\"Kazan, Kremlyovskaya 18\",ПИ-101", lines[1])
}

func TestImportStudents_RowIsolation(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.Groups.Create(context.Background(), models.GroupInput{Name: "ПИ-101"})
	require.NoError(t, err)

	sheet := strings.Join([]string{
		"\uFEFFФамилия,Имя,Отчество,Дата рождения,Телефон,Email,Адрес,Группа",
		"Иванов,Иван,Иванович,01.09.2003,+79991234567,ivanov@example.com,Kazan,ПИ-101",
		"Петров,Пётр,Петрович,12.04.2002,12345,petrov@example.com,Kazan,ПИ-101",
		",,,,,,,",
		"Сидоров,Сидор,Сидорович,05.05.2005,+79990000000,ivanov@example.com,Kazan,",
		"Орлова,Ольга,Олеговна,2004-07-07,+79990000001,orlova@example.com,Kazan,ПИ-10l",
	}, "\n")

	res, err := NewImporter(repo).ImportStudents(context.Background(), strings.NewReader(sheet), CSV)
	require.NoError(t, err)
	assert.NotEqual(t, "", res.ImportID.String())
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Inserted)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, RowFailure{Line: 3, Field: "phone", Rule: models.RulePhoneFormat, Message: "phone: please enter a valid phone number"}, res.Failed[0])
	assert.Equal(t, 5, res.Failed[1].Line)
	assert.Equal(t, models.RuleDuplicateEmail, res.Failed[1].Rule)
	assert.Equal(t, []string{"ПИ-10l"}, res.UnmatchedGroups)

	students, err := repo.Students.List(context.Background(), repository.Filter{})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "ПИ-101", students[0].Group())
	assert.Equal(t, "", students[1].Group())
	assert.Equal(t, "07.07.2004", students[1].BirthDate.String())
}

func TestImportStudents_MissingHeaderAborts(t *testing.T) {
	repo := newRepo(t)
	sheet := "last_name,first_name,middle_name,birth_date,email,address\n" +
		"Иванов,Иван,Иванович,01.09.2003,ivanov@example.com,Kazan\n"

	res, err := NewImporter(repo).ImportStudents(context.Background(), strings.NewReader(sheet), CSV)
	assert.Nil(t, res)
	ve, ok := models.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "phone", ve.Field)
	assert.Equal(t, models.RuleMissingColumn, ve.Rule)

	students, err := repo.Students.List(context.Background(), repository.Filter{})
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestImportPeriods(t *testing.T) {
	repo := newRepo(t)
	students := seed(t, repo)

	sheet := strings.Join([]string{
		"student_email,start_date,end_date,group_name",
		"ivanov@example.com,01.09.2021,30.06.2022,ПИ-001",
		"ivanov@example.com,01.09.2022,30.06.2023,ПИ-101",
		"ghost@example.com,01.09.2022,30.06.2023,ПИ-101",
		"petrova@example.com,01.09.2023,01.01.2023,ПИ-101",
	}, "\n")

	res, err := NewImporter(repo).ImportPeriods(context.Background(), strings.NewReader(sheet), CSV)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Inserted)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, models.RuleUnknownEmail, res.Failed[0].Rule)
	assert.Equal(t, 4, res.Failed[0].Line)
	assert.Equal(t, models.RuleDateRange, res.Failed[1].Rule)

	periods, err := repo.Periods.ListByStudent(context.Background(), students[0].ID)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "ПИ-001", periods[0].GroupName)
}

func TestExportReport(t *testing.T) {
	res := &report.Result{Rows: []models.ReportRow{{
		StudentID: 1, LastName: "Иванов", FirstName: "Иван", MiddleName: "Иванович",
		EventDate: models.MustParseDate("15.06.2024"), Title: "Olympiad", Description: "regional", Category: "award",
	}}}

	var buf bytes.Buffer
	require.NoError(t, ExportReport(&buf, XLSX, res))

	rows, err := ReadTable(&buf, XLSX)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, report.Columns, rows[0])
	assert.Equal(t, []string{"1", "Иванов", "Иван", "Иванович", "15.06.2024", "Olympiad", "regional", "award"}, rows[1])
}
