package workout

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

const dateFormat = time.DateOnly

// recentSessionWindow caps how many sessions feed the overload estimator.
const recentSessionWindow = 3

// repository handles database access for programs and sessions.
type repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	return &repository{db: db, logger: logger}
}

// clientTrainingDays loads a client's weekly training-day count, verifying
// the client belongs to the coach in the context.
func (r *repository) clientTrainingDays(ctx context.Context, clientID int64) (int, error) {
	coachID := contexthelpers.CoachID(ctx)

	var trainingDays int
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT weekly_training_days
		FROM clients
		WHERE id = ? AND coach_id = ?`,
		clientID, coachID).Scan(&trainingDays)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query client training days: %w", err)
	}
	return trainingDays, nil
}

// createProgram persists a program with its days and exercises in one
// transaction.
func (r *repository) createProgram(ctx context.Context, program Program) (_ Program, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Program{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction",
				errors.SlogError(rollbackErr))
		}
	}(tx)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO workout_programs (client_id, split_type)
		VALUES (?, ?)
		RETURNING id, created_at`,
		program.ClientID, string(program.SplitType)).Scan(&program.ID, &program.CreatedAt)
	if err != nil {
		return Program{}, fmt.Errorf("insert workout program: %w", err)
	}

	for _, day := range program.Days {
		var dayID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO workout_days (workout_program_id, day_number, week_number, focus)
			VALUES (?, ?, ?, ?)
			RETURNING id`,
			program.ID, day.DayNumber, day.WeekNumber, day.Focus).Scan(&dayID)
		if err != nil {
			return Program{}, fmt.Errorf("insert workout day %d: %w", day.DayNumber, err)
		}

		for _, exercise := range day.Exercises {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO exercises (workout_day_id, name, target_sets, target_reps, notes, order_index)
				VALUES (?, ?, ?, ?, ?, ?)`,
				dayID, exercise.Name, exercise.Sets, exercise.Reps, exercise.Notes, exercise.OrderIndex)
			if err != nil {
				return Program{}, fmt.Errorf("insert exercise %s for day %d: %w",
					exercise.Name, day.DayNumber, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return Program{}, fmt.Errorf("commit transaction: %w", err)
	}

	return program, nil
}

// latestProgram returns the newest program for a client with days and
// exercises.
func (r *repository) latestProgram(ctx context.Context, clientID int64) (Program, error) {
	coachID := contexthelpers.CoachID(ctx)

	var (
		program   Program
		splitType string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT p.id, p.client_id, p.split_type, p.created_at
		FROM workout_programs p
		JOIN clients c ON c.id = p.client_id
		WHERE p.client_id = ? AND c.coach_id = ?
		ORDER BY p.id DESC
		LIMIT 1`,
		clientID, coachID).Scan(&program.ID, &program.ClientID, &splitType, &program.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Program{}, ErrNotFound
	}
	if err != nil {
		return Program{}, fmt.Errorf("query latest program: %w", err)
	}
	program.SplitType = SplitType(splitType)

	days, err := r.loadProgramDays(ctx, program.ID)
	if err != nil {
		return Program{}, fmt.Errorf("load program days: %w", err)
	}
	program.Days = days

	return program, nil
}

// listPrograms returns program headers for a client, newest first.
func (r *repository) listPrograms(ctx context.Context, clientID int64) (_ []Program, err error) {
	coachID := contexthelpers.CoachID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT p.id, p.client_id, p.split_type, p.created_at
		FROM workout_programs p
		JOIN clients c ON c.id = p.client_id
		WHERE p.client_id = ? AND c.coach_id = ?
		ORDER BY p.id DESC`,
		clientID, coachID)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var programs []Program
	for rows.Next() {
		var (
			program   Program
			splitType string
		)
		if err = rows.Scan(&program.ID, &program.ClientID, &splitType, &program.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan program row: %w", err)
		}
		program.SplitType = SplitType(splitType)
		programs = append(programs, program)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate program rows: %w", err)
	}

	return programs, nil
}

// loadProgramDays loads all days of a program with their exercises in order.
func (r *repository) loadProgramDays(ctx context.Context, programID int64) (_ []Day, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT d.day_number, d.week_number, d.focus, e.name, e.target_sets, e.target_reps, e.notes, e.order_index
		FROM workout_days d
		JOIN exercises e ON e.workout_day_id = d.id
		WHERE d.workout_program_id = ?
		ORDER BY d.day_number, e.order_index`,
		programID)
	if err != nil {
		return nil, fmt.Errorf("query program days: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var days []Day
	for rows.Next() {
		var (
			dayNumber, weekNumber int
			focus                 string
			exercise              Exercise
		)
		if err = rows.Scan(&dayNumber, &weekNumber, &focus, &exercise.Name,
			&exercise.Sets, &exercise.Reps, &exercise.Notes, &exercise.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan exercise row: %w", err)
		}

		if len(days) == 0 || days[len(days)-1].DayNumber != dayNumber {
			days = append(days, Day{DayNumber: dayNumber, WeekNumber: weekNumber, Focus: focus})
		}
		days[len(days)-1].Exercises = append(days[len(days)-1].Exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}

	return days, nil
}

// clientExists verifies the client belongs to the coach in the context.
func (r *repository) clientExists(ctx context.Context, clientID int64) error {
	coachID := contexthelpers.CoachID(ctx)

	var one int
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT 1 FROM clients WHERE id = ? AND coach_id = ?`,
		clientID, coachID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query client: %w", err)
	}
	return nil
}

// createSession persists a session and its sets in one transaction.
func (r *repository) createSession(ctx context.Context, session Session) (_ Session, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction",
				errors.SlogError(rollbackErr))
		}
	}(tx)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO workout_sessions (client_id, workout_day_id, session_date, notes)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		session.ClientID, session.WorkoutDayID, session.Date.Format(dateFormat), session.Notes).
		Scan(&session.ID)
	if err != nil {
		return Session{}, fmt.Errorf("insert workout session: %w", err)
	}

	for _, set := range session.Sets {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO session_sets (workout_session_id, exercise_name, set_number, weight_kg, reps, rpe, success)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			session.ID, set.ExerciseName, set.SetNumber, set.WeightKg, set.Reps, set.RPE, set.Success)
		if err != nil {
			return Session{}, fmt.Errorf("insert session set %s #%d: %w",
				set.ExerciseName, set.SetNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return Session{}, fmt.Errorf("commit transaction: %w", err)
	}

	return session, nil
}

// listSessions returns all sessions of a client with their sets, newest
// first.
func (r *repository) listSessions(ctx context.Context, clientID int64) (_ []Session, err error) {
	coachID := contexthelpers.CoachID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT s.id, s.client_id, s.workout_day_id, s.session_date, s.notes
		FROM workout_sessions s
		JOIN clients c ON c.id = s.client_id
		WHERE s.client_id = ? AND c.coach_id = ?
		ORDER BY s.session_date DESC, s.id DESC`,
		clientID, coachID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sessions []Session
	for rows.Next() {
		var (
			session Session
			dateStr string
		)
		if err = rows.Scan(&session.ID, &session.ClientID, &session.WorkoutDayID,
			&dateStr, &session.Notes); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		if session.Date, err = time.Parse(dateFormat, dateStr); err != nil {
			return nil, fmt.Errorf("parse session date: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}

	for i := range sessions {
		if sessions[i].Sets, err = r.loadSessionSets(ctx, sessions[i].ID); err != nil {
			return nil, fmt.Errorf("load sets for session %d: %w", sessions[i].ID, err)
		}
	}

	return sessions, nil
}

// loadSessionSets loads the sets of one session in set_number order.
func (r *repository) loadSessionSets(ctx context.Context, sessionID int64) (_ []SessionSet, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_name, set_number, weight_kg, reps, rpe, success
		FROM session_sets
		WHERE workout_session_id = ?
		ORDER BY exercise_name, set_number`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var sets []SessionSet
	for rows.Next() {
		var set SessionSet
		if err = rows.Scan(&set.ExerciseName, &set.SetNumber, &set.WeightKg,
			&set.Reps, &set.RPE, &set.Success); err != nil {
			return nil, fmt.Errorf("scan session set row: %w", err)
		}
		sets = append(sets, set)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session set rows: %w", err)
	}

	return sets, nil
}

// recentSessionSets returns the sets of up to recentSessionWindow most recent
// sessions that contain the given exercise, most-recent-first, sets in
// set_number order within each session.
func (r *repository) recentSessionSets(
	ctx context.Context, clientID int64, exerciseName string,
) (_ [][]SessionSet, err error) {
	coachID := contexthelpers.CoachID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT ss.workout_session_id, ss.exercise_name, ss.set_number, ss.weight_kg, ss.reps, ss.rpe, ss.success
		FROM session_sets ss
		JOIN workout_sessions s ON s.id = ss.workout_session_id
		JOIN clients c ON c.id = s.client_id
		WHERE s.client_id = ? AND c.coach_id = ? AND ss.exercise_name = ?
		AND ss.workout_session_id IN (
			SELECT s2.id
			FROM workout_sessions s2
			JOIN session_sets ss2 ON ss2.workout_session_id = s2.id
			WHERE s2.client_id = ? AND ss2.exercise_name = ?
			GROUP BY s2.id
			ORDER BY s2.session_date DESC, s2.id DESC
			LIMIT ?
		)
		ORDER BY s.session_date DESC, s.id DESC, ss.set_number`,
		clientID, coachID, exerciseName, clientID, exerciseName, recentSessionWindow)
	if err != nil {
		return nil, fmt.Errorf("query recent session sets: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var (
		sessions      [][]SessionSet
		lastSessionID int64
	)
	for rows.Next() {
		var (
			sessionID int64
			set       SessionSet
		)
		if err = rows.Scan(&sessionID, &set.ExerciseName, &set.SetNumber,
			&set.WeightKg, &set.Reps, &set.RPE, &set.Success); err != nil {
			return nil, fmt.Errorf("scan recent set row: %w", err)
		}

		if len(sessions) == 0 || sessionID != lastSessionID {
			sessions = append(sessions, nil)
			lastSessionID = sessionID
		}
		sessions[len(sessions)-1] = append(sessions[len(sessions)-1], set)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent set rows: %w", err)
	}

	return sessions, nil
}
