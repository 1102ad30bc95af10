package models

// Student is a stored student joined with the name of its group.
type Student struct {
	ID         int64   `json:"id" db:"id"`
	LastName   string  `json:"last_name" db:"last_name"`
	FirstName  string  `json:"first_name" db:"first_name"`
	MiddleName string  `json:"middle_name" db:"middle_name"`
	BirthDate  Date    `json:"birth_date" db:"birth_date"`
	Phone      string  `json:"phone" db:"phone"`
	Email      string  `json:"email" db:"email"`
	Address    string  `json:"address" db:"address"`
	GroupID    *int64  `json:"group_id" db:"group_id"`
	GroupName  *string `json:"group_name" db:"group_name"`
}

// Group returns the joined group name or "" when the student has no group.
func (s Student) Group() string {
	if s.GroupName == nil {
		return ""
	}
	return *s.GroupName
}

// Columns lists the displayed columns in table order.
func (s Student) Columns() []Column {
	return []Column{
		{Name: "id", Value: FormatID(s.ID)},
		{Name: "last_name", Value: s.LastName},
		{Name: "first_name", Value: s.FirstName},
		{Name: "middle_name", Value: s.MiddleName},
		{Name: "birth_date", Value: s.BirthDate.String()},
		{Name: "phone", Value: s.Phone},
		{Name: "email", Value: s.Email},
		{Name: "address", Value: s.Address},
		{Name: "group_name", Value: s.Group()},
	}
}

// StudentInput is a proposed student row. Create and Update replace every column.
type StudentInput struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	BirthDate  string `json:"birth_date"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	GroupID    *int64 `json:"group_id,omitempty"`
}

// WithGroup assigns a resolved group reference.
func (in StudentInput) WithGroup(ref GroupRef) StudentInput {
	in.GroupID = ref.ID
	return in
}

// Fields returns the form fields in the order they are validated.
func (in StudentInput) Fields() []Field {
	return []Field{
		{Name: "last_name", Value: in.LastName},
		{Name: "first_name", Value: in.FirstName},
		{Name: "middle_name", Value: in.MiddleName},
		{Name: "birth_date", Value: in.BirthDate, Kind: FieldDate},
		{Name: "phone", Value: in.Phone, Kind: FieldPhone},
		{Name: "email", Value: in.Email, Kind: FieldEmail},
		{Name: "address", Value: in.Address},
	}
}

// StudentDetail is a student with everything recorded about it.
type StudentDetail struct {
	Student Student           `json:"student"`
	Events  []Event           `json:"events"`
	Periods []EducationPeriod `json:"education_periods"`
}
