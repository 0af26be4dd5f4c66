package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartstudy-backend/internal/models"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

const taskColumns = `id, user_id, course_id, title, description, due_date, priority, estimated_minutes, actual_minutes, status, created_at`

func (r *TaskRepo) Create(ctx context.Context, t *models.Task) error {
	query := `
		INSERT INTO tasks (user_id, course_id, title, description, due_date, priority, estimated_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		RETURNING id, actual_minutes, status, created_at
	`
	return r.pool.QueryRow(ctx, query,
		t.UserID, t.CourseID, t.Title, t.Description, t.DueDate, t.Priority, t.EstimatedMinutes,
	).Scan(&t.ID, &t.ActualMinutes, &t.Status, &t.CreatedAt)
}

func (r *TaskRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Task, error) {
	var t models.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&t.ID, &t.UserID, &t.CourseID, &t.Title, &t.Description, &t.DueDate,
		&t.Priority, &t.EstimatedMinutes, &t.ActualMinutes, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY due_date ASC, created_at ASC
	`, userID)
}

// ListSchedulable returns the task feed for a scheduling run: only pending
// and in_progress tasks, ordered by due date so ties in the engine's stable
// sort stay deterministic.
func (r *TaskRepo) ListSchedulable(ctx context.Context, userID uuid.UUID) ([]models.Task, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND status IN ('pending', 'in_progress')
		ORDER BY due_date ASC, created_at ASC
	`, userID)
}

func (r *TaskRepo) list(ctx context.Context, query string, userID uuid.UUID) ([]models.Task, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.CourseID, &t.Title, &t.Description, &t.DueDate,
			&t.Priority, &t.EstimatedMinutes, &t.ActualMinutes, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, t *models.Task) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, due_date = $5, priority = $6, estimated_minutes = $7, status = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Priority, t.EstimatedMinutes, t.Status)
	return err
}

func (r *TaskRepo) Complete(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *TaskRepo) Delete(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
