package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartstudy-backend/internal/models"
)

type AvailabilityRepo struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepo(pool *pgxpool.Pool) *AvailabilityRepo {
	return &AvailabilityRepo{pool: pool}
}

func (r *AvailabilityRepo) CreateRule(ctx context.Context, rule *models.AvailabilityRule) error {
	query := `
		INSERT INTO availability_rules (user_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, rule.UserID, rule.DayOfWeek, rule.StartTime, rule.EndTime).
		Scan(&rule.ID, &rule.CreatedAt)
}

func (r *AvailabilityRepo) ListRules(ctx context.Context, userID uuid.UUID) ([]models.AvailabilityRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, day_of_week, start_time, end_time, created_at
		FROM availability_rules
		WHERE user_id = $1
		ORDER BY day_of_week ASC, start_time ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.AvailabilityRule
	for rows.Next() {
		var rule models.AvailabilityRule
		if err := rows.Scan(&rule.ID, &rule.UserID, &rule.DayOfWeek, &rule.StartTime, &rule.EndTime, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *AvailabilityRepo) DeleteRule(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM availability_rules
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *AvailabilityRepo) CreateException(ctx context.Context, ex *models.AvailabilityException) error {
	query := `
		INSERT INTO availability_exceptions (user_id, date, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, ex.UserID, ex.Date, ex.StartTime, ex.EndTime, ex.IsAvailable).
		Scan(&ex.ID, &ex.CreatedAt)
}

func (r *AvailabilityRepo) ListExceptions(ctx context.Context, userID uuid.UUID) ([]models.AvailabilityException, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, date, start_time, end_time, is_available, created_at
		FROM availability_exceptions
		WHERE user_id = $1
		ORDER BY date ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exceptions []models.AvailabilityException
	for rows.Next() {
		var ex models.AvailabilityException
		if err := rows.Scan(&ex.ID, &ex.UserID, &ex.Date, &ex.StartTime, &ex.EndTime, &ex.IsAvailable, &ex.CreatedAt); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, ex)
	}
	return exceptions, rows.Err()
}

func (r *AvailabilityRepo) DeleteException(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM availability_exceptions
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
