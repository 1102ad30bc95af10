package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// lookup answers the validation engine's uniqueness questions.
type lookup struct {
	db *sqlx.DB
}

func (l lookup) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	return l.exists(ctx, "student", "SELECT EXISTS (SELECT 1 FROM students WHERE email = ? AND id <> ?)", email, exceptID)
}

func (l lookup) PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error) {
	return l.exists(ctx, "student", "SELECT EXISTS (SELECT 1 FROM students WHERE phone = ? AND id <> ?)", phone, exceptID)
}

func (l lookup) GroupNameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	return l.exists(ctx, "group", "SELECT EXISTS (SELECT 1 FROM student_groups WHERE name = ? AND id <> ?)", name, exceptID)
}

func (l lookup) exists(ctx context.Context, entity, query string, value string, exceptID int64) (bool, error) {
	var taken bool
	if err := l.db.GetContext(ctx, &taken, l.db.Rebind(query), value, exceptID); err != nil {
		return false, classify(entity, "lookup", 0, err)
	}
	return taken, nil
}
