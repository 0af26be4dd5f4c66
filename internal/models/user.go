package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                     uuid.UUID `json:"id"`
	Email                  string    `json:"email"`
	Name                   string    `json:"name"`
	Timezone               string    `json:"timezone"`
	WeeklyHoursGoal        int       `json:"weekly_hours_goal"`
	PreferredSessionLength int       `json:"preferred_session_length"`
	BreakPreference        int       `json:"break_preference"`
	CreatedAt              time.Time `json:"created_at"`
}

// UpdatePreferencesRequest carries the scheduling preferences a user may change.
// Nil fields are left untouched.
type UpdatePreferencesRequest struct {
	Name                   *string `json:"name"`
	Timezone               *string `json:"timezone"`
	WeeklyHoursGoal        *int    `json:"weekly_hours_goal"`
	PreferredSessionLength *int    `json:"preferred_session_length"`
	BreakPreference        *int    `json:"break_preference"`
}
