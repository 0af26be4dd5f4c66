package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"smartstudy-backend/internal/models"
	"smartstudy-backend/internal/repository"
	"smartstudy-backend/internal/scheduler"
)

// releaseLock deletes the scheduling lock only if we still own it.
var releaseLock = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// ScheduleService runs scheduling end to end: load the task and availability
// feeds, resolve windows, pick a strategy, and atomically replace the user's
// planned sessions with the new plan. Runs for the same user are serialized
// with a redis lock; runs for different users proceed in parallel.
type ScheduleService struct {
	tasks        *repository.TaskRepo
	availability *repository.AvailabilityRepo
	sessions     *repository.SessionRepo
	users        *repository.UserRepo
	redis        *redis.Client

	solverBudget      time.Duration
	horizonDays       int
	fallbackThreshold int // chunk×window pairs above which auto mode goes straight to greedy
}

func NewScheduleService(
	tasks *repository.TaskRepo,
	availability *repository.AvailabilityRepo,
	sessions *repository.SessionRepo,
	users *repository.UserRepo,
	redisClient *redis.Client,
	solverBudget time.Duration,
	horizonDays int,
	fallbackThreshold int,
) *ScheduleService {
	return &ScheduleService{
		tasks:             tasks,
		availability:      availability,
		sessions:          sessions,
		users:             users,
		redis:             redisClient,
		solverBudget:      solverBudget,
		horizonDays:       horizonDays,
		fallbackThreshold: fallbackThreshold,
	}
}

func (s *ScheduleService) Generate(ctx context.Context, userID uuid.UUID, req models.ScheduleGenerateRequest) (*models.ScheduleResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	horizon, err := s.resolveHorizon(req)
	if err != nil {
		return nil, err
	}

	// Per-user mutual exclusion: two runs would race on
	// delete-planned-then-insert. The lock value is an ownership token so a
	// run that outlives the TTL cannot release a successor's lock.
	lockKey := "schedule_lock:" + userID.String()
	lockToken := uuid.NewString()
	locked, err := s.redis.SetNX(ctx, lockKey, lockToken, s.solverBudget+30*time.Second).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire scheduling lock: %w", err)
	}
	if !locked {
		return nil, &ConflictError{Message: "A scheduling run is already in progress"}
	}
	defer releaseLock.Run(context.Background(), s.redis, []string{lockKey}, lockToken)

	tasks, err := s.tasks.ListSchedulable(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) == 0 {
		return emptyResult(models.ReasonNoTasks), nil
	}

	rules, err := s.availability.ListRules(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability rules: %w", err)
	}
	exceptions, err := s.availability.ListExceptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability exceptions: %w", err)
	}

	windows, err := scheduler.ResolveWindows(rules, exceptions, horizon)
	if err != nil {
		if errors.Is(err, scheduler.ErrMalformedRule) || errors.Is(err, scheduler.ErrMalformedException) {
			return nil, &ValidationError{Fields: map[string]string{"availability": err.Error()}}
		}
		return nil, err
	}
	if len(windows) == 0 {
		return emptyResult(models.ReasonNoAvailability), nil
	}

	prefs := scheduler.Preferences{
		SessionLength: user.PreferredSessionLength,
		BreakLength:   user.BreakPreference,
	}
	if prefs.SessionLength <= 0 {
		prefs.SessionLength = scheduler.DefaultSessionLength
	}
	if prefs.BreakLength < 0 {
		prefs.BreakLength = scheduler.DefaultBreakLength
	}

	in := scheduler.Input{Tasks: tasks, Windows: windows, Horizon: horizon, Preferences: prefs}

	primary, fallback, err := s.pickStrategies(req.Strategy, chunkWindowPairs(tasks, prefs.SessionLength, len(windows)))
	if err != nil {
		return nil, err
	}

	plan, err := primary.Schedule(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s scheduling failed: %w", primary.Name(), err)
	}
	if fallback != nil && (plan.Reason == models.ReasonInfeasible || plan.Reason == models.ReasonTimeout) {
		log.Printf("Schedule for user %s: %s path returned %s, falling back to %s", userID, primary.Name(), plan.Reason, fallback.Name())
		fbPlan, fbErr := fallback.Schedule(ctx, in)
		if fbErr != nil {
			return nil, fmt.Errorf("%s scheduling failed: %w", fallback.Name(), fbErr)
		}
		if len(fbPlan.Assignments) > 0 {
			plan = fbPlan
		}
	}

	if len(plan.Assignments) == 0 {
		s.publishUpdate(ctx, userID, models.WSMessage{
			Type:    "schedule_failed",
			Payload: models.ScheduleFailedEvent{Reason: plan.Reason, Message: reasonMessage(plan.Reason)},
		})
		return emptyResult(plan.Reason), nil
	}

	sessions := assembleSessions(userID, plan)

	// A cancelled request must not commit a partial plan: either the full
	// replace succeeds or the prior plan stays intact.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.sessions.ReplacePlanned(ctx, userID, sessions); err != nil {
		return nil, fmt.Errorf("failed to store schedule: %w", err)
	}

	s.publishUpdate(ctx, userID, models.WSMessage{
		Type: "schedule_generated",
		Payload: models.ScheduleGeneratedEvent{
			SessionCount: len(sessions),
			Strategy:     plan.Strategy,
			GeneratedAt:  time.Now().UTC(),
		},
	})
	log.Printf("Scheduled %d sessions for user %s via %s", len(sessions), userID, plan.Strategy)

	return &models.ScheduleResult{
		Sessions:    sessions,
		Count:       len(sessions),
		Message:     fmt.Sprintf("Successfully generated %d study sessions", len(sessions)),
		Unscheduled: plan.Unscheduled,
	}, nil
}

func (s *ScheduleService) resolveHorizon(req models.ScheduleGenerateRequest) (scheduler.Horizon, error) {
	start := time.Now().UTC().Truncate(time.Minute)
	if req.StartDate != nil {
		start = req.StartDate.UTC().Truncate(time.Minute)
	}
	days := s.horizonDays
	if days <= 0 {
		days = scheduler.DefaultHorizonDays
	}
	end := start.AddDate(0, 0, days)
	if req.EndDate != nil {
		end = req.EndDate.UTC().Truncate(time.Minute)
	}
	if !start.Before(end) {
		return scheduler.Horizon{}, &ValidationError{Fields: map[string]string{
			"end_date": "end_date must be after start_date",
		}}
	}
	return scheduler.Horizon{Start: start, End: end}, nil
}

func (s *ScheduleService) pickStrategies(hint string, pairs int) (primary, fallback scheduler.Strategy, err error) {
	switch hint {
	case "greedy":
		return scheduler.NewGreedyScheduler(), nil, nil
	case "optimal":
		return scheduler.NewConstraintScheduler(s.solverBudget), nil, nil
	case "", "auto":
		if s.solverBudget <= 0 || pairs > s.fallbackThreshold {
			return scheduler.NewGreedyScheduler(), nil, nil
		}
		return scheduler.NewConstraintScheduler(s.solverBudget), scheduler.NewGreedyScheduler(), nil
	}
	return nil, nil, &ValidationError{Fields: map[string]string{
		"strategy": "strategy must be auto, optimal or greedy",
	}}
}

// chunkWindowPairs estimates model size for the strategy cutoff.
func chunkWindowPairs(tasks []models.Task, sessionLength, windowCount int) int {
	chunks := 0
	for _, t := range tasks {
		if t.EstimatedMinutes > 0 {
			chunks += (t.EstimatedMinutes + sessionLength - 1) / sessionLength
		}
	}
	return chunks * windowCount
}

// assembleSessions turns a plan into persisted session records, ordered by
// start time, all in status planned.
func assembleSessions(userID uuid.UUID, plan *scheduler.Plan) []models.StudySession {
	assignments := append([]scheduler.Assignment(nil), plan.Assignments...)
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Start.Before(assignments[j].Start)
	})

	now := time.Now().UTC()
	sessions := make([]models.StudySession, len(assignments))
	for i, a := range assignments {
		sessions[i] = models.StudySession{
			ID:             uuid.New(),
			UserID:         userID,
			TaskID:         a.TaskID,
			CourseID:       a.CourseID,
			StartTime:      a.Start,
			EndTime:        a.End,
			PlannedMinutes: a.Minutes,
			Status:         models.SessionPlanned,
			CreatedAt:      now,
		}
	}
	return sessions
}

func emptyResult(reason models.ScheduleReason) *models.ScheduleResult {
	return &models.ScheduleResult{
		Sessions: []models.StudySession{},
		Reason:   reason,
		Message:  reasonMessage(reason),
	}
}

func reasonMessage(reason models.ScheduleReason) string {
	switch reason {
	case models.ReasonNoTasks:
		return "No pending tasks to schedule"
	case models.ReasonNoAvailability:
		return "Please set your availability first"
	case models.ReasonInfeasible:
		return "No feasible plan fits the current deadlines. Try a wider horizon or fewer tasks."
	case models.ReasonTimeout:
		return "Scheduling timed out before finding a plan. Try the greedy strategy or a narrower horizon."
	}
	return ""
}

func (s *ScheduleService) publishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, "user_updates:"+userID.String(), data).Err(); err != nil {
		log.Printf("failed to publish schedule update for user %s: %v", userID, err)
	}
}
