package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"student-records/models"
)

type GroupStore struct {
	store
}

func (s *GroupStore) Create(ctx context.Context, in models.GroupInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Group(ctx, in, 0); err != nil {
		return 0, err
	}

	id, err := s.insert(ctx, "group", s.sql.Insert("student_groups").Columns("name").Values(in.Name))
	if err != nil {
		return 0, err
	}
	slog.Debug("group created", "id", id, "name", in.Name)
	return id, nil
}

func (s *GroupStore) Update(ctx context.Context, id int64, in models.GroupInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Group(ctx, in, id); err != nil {
		return err
	}

	b := s.sql.Update("student_groups").Set("name", in.Name).Where(sq.Eq{"id": id})
	if err := s.exec(ctx, "group", "update", id, b); err != nil {
		return err
	}
	slog.Debug("group updated", "id", id)
	return nil
}

// Delete removes a group; its students stay with no group.
func (s *GroupStore) Delete(ctx context.Context, id int64) error {
	b := s.sql.Delete("student_groups").Where(sq.Eq{"id": id})
	if err := s.exec(ctx, "group", "delete", id, b); err != nil {
		return err
	}
	slog.Debug("group deleted", "id", id)
	return nil
}

func (s *GroupStore) Get(ctx context.Context, id int64) (models.Group, error) {
	var g models.Group
	err := s.getOne(ctx, "group", id, &g, s.sql.Select("id", "name").From("student_groups").Where(sq.Eq{"id": id}))
	return g, err
}

func (s *GroupStore) List(ctx context.Context, f Filter) ([]models.Group, error) {
	groups := []models.Group{}
	if err := s.selectAll(ctx, "group", &groups, s.sql.Select("id", "name").From("student_groups").OrderBy("id")); err != nil {
		return nil, err
	}
	return applyFilter(groups, f)
}

// ResolveName looks a typed group name up. The returned ref has no ID when
// the name is blank or matches no stored group.
func (s *GroupStore) ResolveName(ctx context.Context, name string) (models.GroupRef, error) {
	name = strings.TrimSpace(name)
	ref := models.GroupRef{Name: name}
	if name == "" {
		return ref, nil
	}

	var id int64
	err := s.getOne(ctx, "group", 0, &id, s.sql.Select("id").From("student_groups").Where(sq.Eq{"name": name}))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ref, nil
		}
		return ref, err
	}
	ref.ID = &id
	return ref, nil
}
