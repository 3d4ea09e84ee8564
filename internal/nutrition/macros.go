package nutrition

import (
	"math"
	"strings"
	"time"
)

// Gender selects the Mifflin-St Jeor constant term.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel scales basal metabolic rate into total daily energy expenditure.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// activityMultipliers maps activity levels to TDEE multipliers.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

const defaultActivityMultiplier = 1.55

// Profile is a fully populated calculation input. Use ProfileWithDefaults to
// build one from a partially filled client record so the formulas below stay
// total functions.
type Profile struct {
	WeightKg      float64
	HeightCm      float64
	AgeYears      int
	Gender        Gender
	ActivityLevel ActivityLevel
	Goal          string
}

// Default fallbacks for missing profile fields.
const (
	defaultWeightKg = 70
	defaultHeightCm = 170
	defaultAgeYears = 30
)

// ProfileWithDefaults fills missing profile fields with documented fallbacks:
// weight 70kg, height 170cm, age 30 when dob is unknown, gender male,
// activity moderate and an empty goal meaning maintenance.
//
// Age is the calendar-year difference between now and the birth year. This is
// deliberately imprecise around birthdays.
func ProfileWithDefaults(
	weightKg, heightCm float64,
	dob *time.Time,
	gender, activityLevel, goal string,
	now time.Time,
) Profile {
	p := Profile{
		WeightKg:      weightKg,
		HeightCm:      heightCm,
		AgeYears:      defaultAgeYears,
		Gender:        GenderMale,
		ActivityLevel: ActivityModerate,
		Goal:          goal,
	}
	if p.WeightKg <= 0 {
		p.WeightKg = defaultWeightKg
	}
	if p.HeightCm <= 0 {
		p.HeightCm = defaultHeightCm
	}
	if dob != nil {
		p.AgeYears = now.Year() - dob.Year()
	}
	if strings.EqualFold(gender, string(GenderFemale)) {
		p.Gender = GenderFemale
	}
	if m, ok := activityMultipliers[ActivityLevel(strings.ToLower(activityLevel))]; ok && m > 0 {
		p.ActivityLevel = ActivityLevel(strings.ToLower(activityLevel))
	}
	return p
}

// Targets holds daily macro targets in whole grams and calories.
type Targets struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatsG    int `json:"fats_g"`
}

// goalCalorieFactor classifies a free-text goal into a calorie adjustment.
//
// Matching is case-insensitive substring matching so that label variants like
// "Fat loss", "cutting" or "lean_bulk" all land in the right bucket. Anything
// else means maintenance.
func goalCalorieFactor(goal string) float64 {
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "loss") || strings.Contains(g, "cut"):
		return 0.8
	case strings.Contains(g, "gain") || strings.Contains(g, "bulk"):
		return 1.125
	default:
		return 1.0
	}
}

// CalculateMacros derives daily macro targets from a profile.
//
// BMR uses the Mifflin-St Jeor equation, scaled by the activity multiplier
// and adjusted for the goal. Protein is fixed at 2g per kg bodyweight, fat at
// 27.5% of calories (9 kcal/g) and carbohydrates take the remaining calories
// at 4 kcal/g. Carbohydrates clamp to zero when protein and fat energy exceed
// the calorie target, which can happen for heavy clients on aggressive cuts.
//
// All rounding is half-away-from-zero via math.Round, applied once at the end
// so intermediate values stay exact.
func CalculateMacros(p Profile) Targets {
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.AgeYears) + 5
	if p.Gender != GenderMale {
		bmr = 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.AgeYears) - 161
	}

	multiplier, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		multiplier = defaultActivityMultiplier
	}
	tdee := bmr * multiplier

	calories := tdee * goalCalorieFactor(p.Goal)

	proteinG := p.WeightKg * 2.0
	fatsG := calories * 0.275 / 9
	carbsG := (calories - (proteinG*4 + fatsG*9)) / 4
	if carbsG < 0 {
		carbsG = 0
	}

	return Targets{
		Calories: int(math.Round(calories)),
		ProteinG: int(math.Round(proteinG)),
		CarbsG:   int(math.Round(carbsG)),
		FatsG:    int(math.Round(fatsG)),
	}
}
