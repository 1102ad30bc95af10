package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DisplayLayout is the dd.MM.yyyy form used in forms, JSON and spreadsheets.
	DisplayLayout = "02.01.2006"
	// StorageLayout is the sortable form kept in the store.
	StorageLayout = "2006-01-02"
)

// Date is a calendar date without time of day.
// It is stored as ISO text so that comparisons in SQL are chronological.
type Date struct {
	time.Time
}

// ParseDate accepts dd.MM.yyyy (and the single-digit d.M.yyyy variant) or yyyy-mm-dd.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DisplayLayout, "2.1.2006", StorageLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q (use dd.MM.yyyy)", s)
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the display form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayLayout)
}

// ISO returns the storage form.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(StorageLayout)
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.ISO(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = Date{time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)}
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.scanString(s)
}
