package nutrition

import (
	"math"
	"strings"
	"time"
)

// Plan dimensions shared by generation and persistence.
const (
	PlanDays    = 28
	PlanWeeks   = 4
	DaysPerWeek = 7
	MealsPerDay = 5
)

// Meal is one of the five meals of a plan day.
type Meal struct {
	Slot     Slot   `json:"slot"`
	Title    string `json:"title"`
	ProteinG int    `json:"protein_g"`
	CarbsG   int    `json:"carbs_g"`
	FatsG    int    `json:"fats_g"`
	Calories int    `json:"calories"`
}

// PlanDay is one of the 28 consecutive days of a plan.
type PlanDay struct {
	DayNumber  int    `json:"day_number"`
	WeekNumber int    `json:"week_number"`
	Meals      []Meal `json:"meals"`
}

// Plan is a generated 28-day meal plan with the targets it was built for.
type Plan struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Targets   Targets   `json:"targets"`
	Days      []PlanDay `json:"days,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateDailyMeals assembles one day's five meals from the fixed catalog.
//
// Food selection is keyed by slot identity, so the output is identical for
// any target values. The targets still shape the plan through the per-plan
// header the caller persists alongside the days.
func GenerateDailyMeals(targets Targets) []Meal {
	_ = targets

	meals := make([]Meal, 0, MealsPerDay)
	for _, slot := range slotOrder {
		meals = append(meals, composeMeal(slot))
	}
	return meals
}

// composeMeal sums the fixed per-serving macros of a slot's foods.
func composeMeal(slot Slot) Meal {
	var proteinG, carbsG, fatsG, calories float64
	names := make([]string, 0, 3)

	for _, name := range slotFoods[slot] {
		item, ok := catalogFood(name)
		if !ok {
			continue
		}
		proteinG += item.proteinG
		carbsG += item.carbsG
		fatsG += item.fatsG
		calories += item.calories
		names = append(names, item.name)
	}

	return Meal{
		Slot:     slot,
		Title:    strings.Join(names, ", "),
		ProteinG: int(math.Round(proteinG)),
		CarbsG:   int(math.Round(carbsG)),
		FatsG:    int(math.Round(fatsG)),
		Calories: int(math.Round(calories)),
	}
}

// buildPlanDays materializes the full 28-day grid, five meals per day.
func buildPlanDays(targets Targets) []PlanDay {
	days := make([]PlanDay, 0, PlanDays)
	for week := 1; week <= PlanWeeks; week++ {
		for day := 1; day <= DaysPerWeek; day++ {
			dayNumber := (week-1)*DaysPerWeek + day
			days = append(days, PlanDay{
				DayNumber:  dayNumber,
				WeekNumber: week,
				Meals:      GenerateDailyMeals(targets),
			})
		}
	}
	return days
}
