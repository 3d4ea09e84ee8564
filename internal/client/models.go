package client

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/mkarvo/coachapp/internal/errors"
)

// ErrNotFound is returned when a client does not exist for the requesting
// coach.
var ErrNotFound = errors.NewSentinel("client not found")

// ErrInvalid is returned when a client record fails validation.
var ErrInvalid = errors.NewSentinel("invalid client")

var validGenders = []string{"male", "female"}

var validActivityLevels = []string{"sedentary", "light", "moderate", "active", "very_active"}

// Client is a coaching client's profile. Optional fields are left empty when
// unknown; downstream calculations apply their own defaults.
type Client struct {
	ID                 int64      `json:"id"`
	FullName           string     `json:"full_name"`
	Email              string     `json:"email,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	DOB                *time.Time `json:"dob,omitempty"`
	Gender             string     `json:"gender,omitempty"`
	HeightCm           float64    `json:"height_cm,omitempty"`
	WeightKg           float64    `json:"weight_kg,omitempty"`
	ActivityLevel      string     `json:"activity_level,omitempty"`
	Goal               string     `json:"goal,omitempty"`
	WeeklyTrainingDays int        `json:"weekly_training_days"`
	DietType           string     `json:"diet_type,omitempty"`
	Allergies          []string   `json:"allergies"`
	DislikedFoods      []string   `json:"disliked_foods"`
	NotesMarkdown      string     `json:"notes_markdown,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// GoalAdjustment classifies a free-text goal the same way the macro
// calculator does.
type GoalAdjustment string

const (
	GoalCut      GoalAdjustment = "cut"
	GoalBulk     GoalAdjustment = "bulk"
	GoalMaintain GoalAdjustment = "maintain"
)

// ClassifyGoal maps a free-text goal to its calorie-adjustment class by
// substring match, so "Fat Loss", "cutting" and "weight_loss" all cut.
func ClassifyGoal(goal string) GoalAdjustment {
	lower := strings.ToLower(goal)
	switch {
	case strings.Contains(lower, "loss") || strings.Contains(lower, "cut"):
		return GoalCut
	case strings.Contains(lower, "gain") || strings.Contains(lower, "bulk"):
		return GoalBulk
	default:
		return GoalMaintain
	}
}

// normalize lowercases the enum-like fields and clamps the training-day
// count so stored records are canonical.
func (c *Client) normalize() {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Gender = strings.ToLower(strings.TrimSpace(c.Gender))
	c.ActivityLevel = strings.ToLower(strings.TrimSpace(c.ActivityLevel))
	if c.WeeklyTrainingDays < 0 {
		c.WeeklyTrainingDays = 0
	}
	if c.WeeklyTrainingDays > 7 {
		c.WeeklyTrainingDays = 7
	}
	if c.Allergies == nil {
		c.Allergies = []string{}
	}
	if c.DislikedFoods == nil {
		c.DislikedFoods = []string{}
	}
}

// validate checks the normalized record. Empty optional fields are valid;
// present ones must make sense.
func (c *Client) validate() error {
	if c.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalid)
	}
	if c.Gender != "" && !slices.Contains(validGenders, c.Gender) {
		return fmt.Errorf("%w: gender %q", ErrInvalid, c.Gender)
	}
	if c.ActivityLevel != "" && !slices.Contains(validActivityLevels, c.ActivityLevel) {
		return fmt.Errorf("%w: activity level %q", ErrInvalid, c.ActivityLevel)
	}
	if c.HeightCm < 0 || c.HeightCm > 300 {
		return fmt.Errorf("%w: height %.1fcm", ErrInvalid, c.HeightCm)
	}
	if c.WeightKg < 0 || c.WeightKg > 700 {
		return fmt.Errorf("%w: weight %.1fkg", ErrInvalid, c.WeightKg)
	}
	return nil
}
