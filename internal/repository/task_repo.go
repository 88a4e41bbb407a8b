package repository

import (
	"context"
	"errors"

	"todo_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListVisible returns tasks the given viewer may observe: non-private tasks
// plus the viewer's own private ones. viewerID 0 means an anonymous viewer.
// Ordered by creation time, newest first.
func (r *TaskRepository) ListVisible(ctx context.Context, viewerID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, text, owner_id, username, checked, private, created_at
		 FROM tasks
		 WHERE private = false OR owner_id = $1
		 ORDER BY created_at DESC, id DESC`,
		viewerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.OwnerID, &t.Username, &t.Checked, &t.Private, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`SELECT id, text, owner_id, username, checked, private, created_at
		 FROM tasks WHERE id = $1`, id,
	).Scan(&t.ID, &t.Text, &t.OwnerID, &t.Username, &t.Checked, &t.Private, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (text, owner_id, username, checked, private)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.Text, t.OwnerID, t.Username, t.Checked, t.Private,
	).Scan(&t.ID, &t.CreatedAt)
}

// Delete removes the task and returns the deleted record, or pgx.ErrNoRows
// if no such task existed.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`DELETE FROM tasks WHERE id = $1
		 RETURNING id, text, owner_id, username, checked, private, created_at`, id,
	).Scan(&t.ID, &t.Text, &t.OwnerID, &t.Username, &t.Checked, &t.Private, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetChecked updates the checked flag and returns the new row state.
func (r *TaskRepository) SetChecked(ctx context.Context, id int64, checked bool) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`UPDATE tasks SET checked = $1 WHERE id = $2
		 RETURNING id, text, owner_id, username, checked, private, created_at`,
		checked, id,
	).Scan(&t.ID, &t.Text, &t.OwnerID, &t.Username, &t.Checked, &t.Private, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetPrivate updates the private flag and returns the new row state.
func (r *TaskRepository) SetPrivate(ctx context.Context, id int64, private bool) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`UPDATE tasks SET private = $1 WHERE id = $2
		 RETURNING id, text, owner_id, username, checked, private, created_at`,
		private, id,
	).Scan(&t.ID, &t.Text, &t.OwnerID, &t.Username, &t.Checked, &t.Private, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CountIncomplete counts visible tasks where checked is not true.
func (r *TaskRepository) CountIncomplete(ctx context.Context, viewerID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks
		 WHERE checked = false AND (private = false OR owner_id = $1)`,
		viewerID,
	).Scan(&n)
	return n, err
}

// IsNotFound reports whether err is the no-rows sentinel from pgx.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
