package spreadsheet

import (
	"io"

	"student-records/models"
	"student-records/report"
)

func studentRows(students []models.Student) [][]string {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{
			s.LastName,
			s.FirstName,
			s.MiddleName,
			s.BirthDate.String(),
			s.Phone,
			s.Email,
			s.Address,
			s.Group(),
		})
	}
	return rows
}

// ExportStudents writes one header row and one row per student.
func ExportStudents(w io.Writer, format Format, students []models.Student) error {
	return WriteTable(w, format, "Students", StudentColumns, studentRows(students))
}

// ExportReport writes the report rows under the report column header.
func ExportReport(w io.Writer, format Format, res *report.Result) error {
	return WriteTable(w, format, "Report", report.Columns, res.Table())
}
