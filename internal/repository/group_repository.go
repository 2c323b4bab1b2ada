package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/art-studio-api/internal/models"
)

const groupColumns = "id, name, day1, day2, start_time, end_time, created_at, updated_at"

// GroupRepository manages persistence for studio groups. Every method is a
// single statement; a missing row is reported as sql.ErrNoRows.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a new group repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns all groups, newest first.
func (r *GroupRepository) List(ctx context.Context) ([]models.Group, error) {
	query := "SELECT " + groupColumns + " FROM studio_groups ORDER BY created_at DESC, id DESC"
	groups := make([]models.Group, 0)
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// FindByID returns a group by ID.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	query := "SELECT " + groupColumns + " FROM studio_groups WHERE id = $1"
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &group, nil
}

// Create persists a group, assigning its ID and timestamps.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	const query = `INSERT INTO studio_groups (id, name, day1, day2, start_time, end_time, created_at, updated_at) VALUES (:id, :name, :day1, :day2, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// Update writes only the fields present in patch and returns the stored row.
func (r *GroupRepository) Update(ctx context.Context, id string, patch models.GroupPatch) (*models.Group, error) {
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	set("name", patch.Name)
	set("day1", patch.Day1)
	set("day2", patch.Day2)
	set("start_time", patch.StartTime)
	set("end_time", patch.EndTime)

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE studio_groups SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), groupColumns)
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update group: %w", err)
	}
	return &group, nil
}

// Delete removes a group record.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM studio_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
