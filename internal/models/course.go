package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	ExamDate    *time.Time `json:"exam_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateCourseRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	ExamDate    *time.Time `json:"exam_date"`
}
