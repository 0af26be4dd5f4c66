package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartstudy-backend/internal/models"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// ReplacePlanned atomically supersedes the user's current plan: delete every
// still-planned session, insert the new set, commit. Sessions already
// in_progress, completed or skipped are never touched. A failed insert rolls
// the delete back, so callers either get the full new plan or keep the old
// one.
func (r *SessionRepo) ReplacePlanned(ctx context.Context, userID uuid.UUID, sessions []models.StudySession) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM study_sessions
		WHERE user_id = $1 AND status = 'planned'
	`, userID); err != nil {
		return err
	}

	for i := range sessions {
		s := &sessions[i]
		if _, err := tx.Exec(ctx, `
			INSERT INTO study_sessions (id, user_id, task_id, course_id, start_time, end_time, planned_minutes, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, s.ID, s.UserID, s.TaskID, s.CourseID, s.StartTime, s.EndTime, s.PlannedMinutes, s.Status, s.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *SessionRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.StudySession, error) {
	var s models.StudySession
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, task_id, course_id, start_time, end_time, planned_minutes, actual_minutes, status, created_at
		FROM study_sessions
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&s.ID, &s.UserID, &s.TaskID, &s.CourseID, &s.StartTime, &s.EndTime,
		&s.PlannedMinutes, &s.ActualMinutes, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListRange returns the user's sessions with start_time in [from, to),
// ordered chronologically.
func (r *SessionRepo) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.StudySession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, task_id, course_id, start_time, end_time, planned_minutes, actual_minutes, status, created_at
		FROM study_sessions
		WHERE user_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		var s models.StudySession
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.TaskID, &s.CourseID, &s.StartTime, &s.EndTime,
			&s.PlannedMinutes, &s.ActualMinutes, &s.Status, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// UpdateStatus applies one state-machine transition. The caller has already
// validated the transition against the current status; the WHERE clause
// re-checks it so a concurrent writer cannot sneak an illegal hop through.
func (r *SessionRepo) UpdateStatus(ctx context.Context, id, userID uuid.UUID, from, to models.SessionStatus, actualMinutes int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE study_sessions
		SET status = $4, actual_minutes = actual_minutes + $5
		WHERE id = $1 AND user_id = $2 AND status = $3
	`, id, userID, from, to, actualMinutes)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
