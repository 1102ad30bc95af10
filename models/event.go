package models

type Event struct {
	ID          int64  `json:"id" db:"id"`
	StudentID   int64  `json:"student_id" db:"student_id"`
	Date        Date   `json:"date" db:"date"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
}

func (e Event) Columns() []Column {
	return []Column{
		{Name: "id", Value: FormatID(e.ID)},
		{Name: "student_id", Value: FormatID(e.StudentID)},
		{Name: "date", Value: e.Date.String()},
		{Name: "title", Value: e.Title},
		{Name: "description", Value: e.Description},
		{Name: "category", Value: e.Category},
	}
}

type EventInput struct {
	StudentID   int64  `json:"student_id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (in EventInput) Fields() []Field {
	studentID := ""
	if in.StudentID != 0 {
		studentID = FormatID(in.StudentID)
	}
	return []Field{
		{Name: "student_id", Value: studentID},
		{Name: "date", Value: in.Date, Kind: FieldDate},
		{Name: "title", Value: in.Title},
		{Name: "description", Value: in.Description},
		{Name: "category", Value: in.Category},
	}
}

// EducationPeriod records the window a student spent in a group.
type EducationPeriod struct {
	StudentID int64  `json:"student_id" db:"student_id"`
	StartDate Date   `json:"start_date" db:"start_date"`
	EndDate   Date   `json:"end_date" db:"end_date"`
	GroupName string `json:"group_name" db:"group_name"`
}

type EducationPeriodInput struct {
	StudentID int64
	StartDate string
	EndDate   string
	GroupName string
}

func (in EducationPeriodInput) Fields() []Field {
	studentID := ""
	if in.StudentID != 0 {
		studentID = FormatID(in.StudentID)
	}
	return []Field{
		{Name: "student_id", Value: studentID},
		{Name: "start_date", Value: in.StartDate, Kind: FieldDate},
		{Name: "end_date", Value: in.EndDate, Kind: FieldDate},
		{Name: "group_name", Value: in.GroupName},
	}
}

// ReportRow is one event of a group member inside the report window.
type ReportRow struct {
	StudentID   int64  `json:"student_id" db:"student_id"`
	LastName    string `json:"last_name" db:"last_name"`
	FirstName   string `json:"first_name" db:"first_name"`
	MiddleName  string `json:"middle_name" db:"middle_name"`
	EventDate   Date   `json:"event_date" db:"event_date"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"`
}
