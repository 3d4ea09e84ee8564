package workout

import (
	"time"

	"github.com/mkarvo/coachapp/internal/errors"
)

// SplitType names a training split archetype.
type SplitType string

const (
	SplitPushPullLegs SplitType = "Push/Pull/Legs"
	SplitUpperLower   SplitType = "Upper/Lower"
	SplitFullBody     SplitType = "Full Body"
)

// ErrUnknownSplit is returned when a split type is not one of the three
// supported archetypes.
var ErrUnknownSplit = errors.NewSentinel("unknown split type")

// ErrNotFound is returned when a client, program or session does not exist
// for the requesting coach.
var ErrNotFound = errors.NewSentinel("not found")

// ParseSplit validates a split type string.
func ParseSplit(s string) (SplitType, error) {
	switch SplitType(s) {
	case SplitPushPullLegs, SplitUpperLower, SplitFullBody:
		return SplitType(s), nil
	default:
		return "", ErrUnknownSplit
	}
}

// Exercise is one exercise slot of a workout day. Sets is the target set
// count and Reps a human-readable rep range like "8-10".
type Exercise struct {
	Name       string `json:"name"`
	Sets       int    `json:"sets"`
	Reps       string `json:"reps"`
	Notes      string `json:"notes"`
	OrderIndex int    `json:"order_index"`
}

// Template is a named workout with its ordered exercise list.
type Template struct {
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}

// ScheduledDay assigns a template to one of the 28 days of a program.
type ScheduledDay struct {
	DayNumber  int
	WeekNumber int
	Template   Template
}

// Day is a materialized workout day of a persisted program.
type Day struct {
	DayNumber  int        `json:"day_number"`
	WeekNumber int        `json:"week_number"`
	Focus      string     `json:"focus"`
	Exercises  []Exercise `json:"exercises"`
}

// Program is a generated 28-day workout program.
type Program struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	SplitType SplitType `json:"split_type"`
	Days      []Day     `json:"days,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionSet is one logged set of an exercise.
type SessionSet struct {
	ExerciseName string  `json:"exercise_name"`
	SetNumber    int     `json:"set_number"`
	WeightKg     float64 `json:"weight_kg"`
	Reps         int     `json:"reps"`
	RPE          *int    `json:"rpe,omitempty"`
	Success      bool    `json:"success"`
}

// Session is a logged training session with its sets.
type Session struct {
	ID           int64        `json:"id"`
	ClientID     int64        `json:"client_id"`
	WorkoutDayID *int64       `json:"workout_day_id,omitempty"`
	Date         time.Time    `json:"date"`
	Notes        string       `json:"notes"`
	Sets         []SessionSet `json:"sets"`
}

// Suggestion is a progressive-overload weight recommendation.
type Suggestion struct {
	SuggestedWeightKg float64 `json:"suggested_weight_kg"`
	Reason            string  `json:"reason"`
	LastWeightKg      float64 `json:"last_weight_kg"`
}
