package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartstudy-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, timezone, weekly_hours_goal, preferred_session_length, break_preference, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.Timezone, &u.WeeklyHoursGoal,
		&u.PreferredSessionLength, &u.BreakPreference, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePreferences writes only the fields present in the request.
func (r *UserRepo) UpdatePreferences(ctx context.Context, id uuid.UUID, req models.UpdatePreferencesRequest) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = COALESCE($2, name),
			timezone = COALESCE($3, timezone),
			weekly_hours_goal = COALESCE($4, weekly_hours_goal),
			preferred_session_length = COALESCE($5, preferred_session_length),
			break_preference = COALESCE($6, break_preference)
		WHERE id = $1
	`, id, req.Name, req.Timezone, req.WeeklyHoursGoal, req.PreferredSessionLength, req.BreakPreference)
	return err
}
