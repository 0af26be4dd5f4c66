package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"smartstudy-backend/internal/models"
)

// Sentinel validation errors. Malformed feeds are rejected before any model
// construction; use errors.Is to check.
var (
	ErrMalformedRule      = errors.New("scheduler: malformed availability rule")
	ErrMalformedException = errors.New("scheduler: malformed availability exception")
)

// parseClock parses a strict "HH:MM" string into minutes since midnight.
func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

type clockRange struct {
	start int // minutes since midnight
	end   int
}

// ResolveWindows merges recurring rules and date exceptions into concrete,
// disjoint free-time windows clipped to the horizon and sorted by start.
//
// Per calendar day: rules matching the weekday contribute windows; an
// exception with is_available=false and no times cancels the day, with times
// it carves the given subrange out of every window; is_available=true
// appends the given range. Blocks are applied after additions so an explicit
// block always wins. No rules and no exceptions produce an empty, non-error
// result.
func ResolveWindows(rules []models.AvailabilityRule, exceptions []models.AvailabilityException, horizon Horizon) ([]Window, error) {
	type dayRule struct {
		weekday time.Weekday
		r       clockRange
	}
	dayRules := make([]dayRule, 0, len(rules))
	for _, rule := range rules {
		wd, ok := rule.DayOfWeek.Weekday()
		if !ok {
			return nil, fmt.Errorf("%w: unknown day_of_week %q", ErrMalformedRule, rule.DayOfWeek)
		}
		start, err := parseClock(rule.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRule, err)
		}
		end, err := parseClock(rule.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRule, err)
		}
		if start >= end {
			return nil, fmt.Errorf("%w: start %s not before end %s", ErrMalformedRule, rule.StartTime, rule.EndTime)
		}
		dayRules = append(dayRules, dayRule{weekday: wd, r: clockRange{start: start, end: end}})
	}

	type dayException struct {
		r           *clockRange // nil means whole day
		isAvailable bool
	}
	exceptionsByDate := make(map[string][]dayException)
	for _, ex := range exceptions {
		var rng *clockRange
		switch {
		case ex.StartTime == nil && ex.EndTime == nil:
			if ex.IsAvailable {
				return nil, fmt.Errorf("%w: is_available exception requires start and end times", ErrMalformedException)
			}
		case ex.StartTime != nil && ex.EndTime != nil:
			start, err := parseClock(*ex.StartTime)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedException, err)
			}
			end, err := parseClock(*ex.EndTime)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedException, err)
			}
			if start >= end {
				return nil, fmt.Errorf("%w: start %s not before end %s", ErrMalformedException, *ex.StartTime, *ex.EndTime)
			}
			rng = &clockRange{start: start, end: end}
		default:
			return nil, fmt.Errorf("%w: start and end times must be given together", ErrMalformedException)
		}
		key := ex.Date.In(horizon.Start.Location()).Format("2006-01-02")
		exceptionsByDate[key] = append(exceptionsByDate[key], dayException{r: rng, isAvailable: ex.IsAvailable})
	}

	loc := horizon.Start.Location()
	var out []Window

	day := time.Date(horizon.Start.Year(), horizon.Start.Month(), horizon.Start.Day(), 0, 0, 0, 0, loc)
	for day.Before(horizon.End) {
		var wins []Window
		for _, dr := range dayRules {
			if dr.weekday != day.Weekday() {
				continue
			}
			wins = append(wins, windowFromClock(day, dr.r))
		}

		dayExs := exceptionsByDate[day.Format("2006-01-02")]
		for _, ex := range dayExs {
			if ex.isAvailable {
				wins = append(wins, windowFromClock(day, *ex.r))
			}
		}
		for _, ex := range dayExs {
			if ex.isAvailable {
				continue
			}
			if ex.r == nil {
				wins = nil
				continue
			}
			wins = carve(wins, windowFromClock(day, *ex.r))
		}

		// Clip to the horizon and drop empties.
		kept := wins[:0]
		for _, w := range wins {
			if w.Start.Before(horizon.Start) {
				w.Start = horizon.Start
			}
			if w.End.After(horizon.End) {
				w.End = horizon.End
			}
			if w.Start.Before(w.End) {
				kept = append(kept, w)
			}
		}
		out = append(out, mergeWindows(kept)...)

		day = day.AddDate(0, 0, 1)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func windowFromClock(day time.Time, r clockRange) Window {
	return Window{
		Start: day.Add(time.Duration(r.start) * time.Minute),
		End:   day.Add(time.Duration(r.end) * time.Minute),
	}
}

// carve removes block from every window, splitting where needed.
func carve(wins []Window, block Window) []Window {
	var out []Window
	for _, w := range wins {
		if !w.Start.Before(block.End) || !block.Start.Before(w.End) {
			out = append(out, w)
			continue
		}
		if w.Start.Before(block.Start) {
			out = append(out, Window{Start: w.Start, End: block.Start})
		}
		if block.End.Before(w.End) {
			out = append(out, Window{Start: block.End, End: w.End})
		}
	}
	return out
}

// mergeWindows sorts windows and merges overlapping or touching ones.
func mergeWindows(wins []Window) []Window {
	if len(wins) < 2 {
		return wins
	}
	sort.Slice(wins, func(i, j int) bool { return wins[i].Start.Before(wins[j].Start) })
	out := wins[:1]
	for _, w := range wins[1:] {
		last := &out[len(out)-1]
		if !w.Start.After(last.End) {
			if w.End.After(last.End) {
				last.End = w.End
			}
			continue
		}
		out = append(out, w)
	}
	return out
}
