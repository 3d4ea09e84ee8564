package nutrition

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkarvo/coachapp/internal/contexthelpers"
	"github.com/mkarvo/coachapp/internal/errors"
	"github.com/mkarvo/coachapp/internal/sqlite"
)

// ErrNotFound is returned when a client or plan does not exist for the
// requesting coach.
var ErrNotFound = errors.NewSentinel("not found")

const dobFormat = time.DateOnly

// repository handles database access for meal plans.
type repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	return &repository{db: db, logger: logger}
}

// clientProfile loads the calculation inputs for a client owned by the coach
// in the context and applies the documented defaults.
func (r *repository) clientProfile(ctx context.Context, clientID int64) (Profile, error) {
	coachID := contexthelpers.CoachID(ctx)

	var (
		weightKg      sql.NullFloat64
		heightCm      sql.NullFloat64
		dobStr        sql.NullString
		gender        sql.NullString
		activityLevel sql.NullString
		goal          sql.NullString
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT weight_kg, height_cm, dob, gender, activity_level, goal
		FROM clients
		WHERE id = ? AND coach_id = ?`,
		clientID, coachID).Scan(&weightKg, &heightCm, &dobStr, &gender, &activityLevel, &goal)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("query client profile: %w", err)
	}

	var dob *time.Time
	if dobStr.Valid && dobStr.String != "" {
		parsed, parseErr := time.Parse(dobFormat, dobStr.String)
		if parseErr != nil {
			// A malformed dob falls back to the default age instead of
			// failing the whole calculation.
			r.logger.LogAttrs(ctx, slog.LevelWarn, "unparseable client dob",
				slog.Int64("clientID", clientID), slog.String("dob", dobStr.String))
		} else {
			dob = &parsed
		}
	}

	return ProfileWithDefaults(
		weightKg.Float64,
		heightCm.Float64,
		dob,
		gender.String,
		activityLevel.String,
		goal.String,
		time.Now(),
	), nil
}

// createPlan persists a plan with its 28 days and 140 meals in one transaction.
func (r *repository) createPlan(ctx context.Context, plan Plan) (_ Plan, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Plan{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction",
				errors.SlogError(rollbackErr))
		}
	}(tx)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO meal_plans (client_id, calories, protein_g, carbs_g, fats_g)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`,
		plan.ClientID, plan.Targets.Calories, plan.Targets.ProteinG,
		plan.Targets.CarbsG, plan.Targets.FatsG).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		return Plan{}, fmt.Errorf("insert meal plan: %w", err)
	}

	for _, day := range plan.Days {
		var dayID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO meal_plan_days (meal_plan_id, day_number, week_number)
			VALUES (?, ?, ?)
			RETURNING id`,
			plan.ID, day.DayNumber, day.WeekNumber).Scan(&dayID)
		if err != nil {
			return Plan{}, fmt.Errorf("insert plan day %d: %w", day.DayNumber, err)
		}

		for position, meal := range day.Meals {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO meals (meal_plan_day_id, slot, title, protein_g, carbs_g, fats_g, calories, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				dayID, string(meal.Slot), meal.Title,
				meal.ProteinG, meal.CarbsG, meal.FatsG, meal.Calories, position)
			if err != nil {
				return Plan{}, fmt.Errorf("insert meal %s for day %d: %w", meal.Slot, day.DayNumber, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return Plan{}, fmt.Errorf("commit transaction: %w", err)
	}

	return plan, nil
}

// latestPlan returns the newest plan for a client including days and meals.
func (r *repository) latestPlan(ctx context.Context, clientID int64) (Plan, error) {
	coachID := contexthelpers.CoachID(ctx)

	var plan Plan
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT p.id, p.client_id, p.calories, p.protein_g, p.carbs_g, p.fats_g, p.created_at
		FROM meal_plans p
		JOIN clients c ON c.id = p.client_id
		WHERE p.client_id = ? AND c.coach_id = ?
		ORDER BY p.id DESC
		LIMIT 1`,
		clientID, coachID).Scan(
		&plan.ID, &plan.ClientID, &plan.Targets.Calories, &plan.Targets.ProteinG,
		&plan.Targets.CarbsG, &plan.Targets.FatsG, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("query latest plan: %w", err)
	}

	days, err := r.loadPlanDays(ctx, plan.ID)
	if err != nil {
		return Plan{}, fmt.Errorf("load plan days: %w", err)
	}
	plan.Days = days

	return plan, nil
}

// listPlans returns plan headers for a client, newest first, without days.
func (r *repository) listPlans(ctx context.Context, clientID int64) (_ []Plan, err error) {
	coachID := contexthelpers.CoachID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT p.id, p.client_id, p.calories, p.protein_g, p.carbs_g, p.fats_g, p.created_at
		FROM meal_plans p
		JOIN clients c ON c.id = p.client_id
		WHERE p.client_id = ? AND c.coach_id = ?
		ORDER BY p.id DESC`,
		clientID, coachID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var plans []Plan
	for rows.Next() {
		var plan Plan
		if err = rows.Scan(
			&plan.ID, &plan.ClientID, &plan.Targets.Calories, &plan.Targets.ProteinG,
			&plan.Targets.CarbsG, &plan.Targets.FatsG, &plan.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		plans = append(plans, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan rows: %w", err)
	}

	return plans, nil
}

// loadPlanDays loads all days and meals of a plan ordered by day and position.
func (r *repository) loadPlanDays(ctx context.Context, planID int64) (_ []PlanDay, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT d.day_number, d.week_number, m.slot, m.title, m.protein_g, m.carbs_g, m.fats_g, m.calories
		FROM meal_plan_days d
		JOIN meals m ON m.meal_plan_day_id = d.id
		WHERE d.meal_plan_id = ?
		ORDER BY d.day_number, m.position`,
		planID)
	if err != nil {
		return nil, fmt.Errorf("query plan days: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var days []PlanDay
	for rows.Next() {
		var (
			dayNumber, weekNumber int
			meal                  Meal
			slot                  string
		)
		if err = rows.Scan(&dayNumber, &weekNumber, &slot, &meal.Title,
			&meal.ProteinG, &meal.CarbsG, &meal.FatsG, &meal.Calories); err != nil {
			return nil, fmt.Errorf("scan meal row: %w", err)
		}
		meal.Slot = Slot(slot)

		if len(days) == 0 || days[len(days)-1].DayNumber != dayNumber {
			days = append(days, PlanDay{DayNumber: dayNumber, WeekNumber: weekNumber})
		}
		days[len(days)-1].Meals = append(days[len(days)-1].Meals, meal)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal rows: %w", err)
	}

	return days, nil
}
