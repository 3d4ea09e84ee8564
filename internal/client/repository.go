package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkarvo/coachapp/internal/contexthelpers"
	"github.com/mkarvo/coachapp/internal/errors"
	"github.com/mkarvo/coachapp/internal/sqlite"
)

const dobFormat = time.DateOnly

// repository handles database access for client profiles.
type repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	return &repository{db: db, logger: logger}
}

// clientRow mirrors the nullable columns of the clients table.
type clientRow struct {
	email         sql.NullString
	phone         sql.NullString
	dob           sql.NullString
	gender        sql.NullString
	heightCm      sql.NullFloat64
	weightKg      sql.NullFloat64
	activityLevel sql.NullString
	goal          sql.NullString
	dietType      sql.NullString
	allergies     string
	dislikedFoods string
}

const clientColumns = `id, full_name, email, phone, dob, gender, height_cm, weight_kg,
		activity_level, goal, weekly_training_days, diet_type, allergies, disliked_foods,
		notes_markdown, created_at, updated_at`

func (r *repository) scanClient(ctx context.Context, scan func(dest ...any) error) (Client, error) {
	var (
		c   Client
		row clientRow
	)
	err := scan(&c.ID, &c.FullName, &row.email, &row.phone, &row.dob, &row.gender,
		&row.heightCm, &row.weightKg, &row.activityLevel, &row.goal,
		&c.WeeklyTrainingDays, &row.dietType, &row.allergies, &row.dislikedFoods,
		&c.NotesMarkdown, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Client{}, err
	}

	c.Email = row.email.String
	c.Phone = row.phone.String
	c.Gender = row.gender.String
	c.HeightCm = row.heightCm.Float64
	c.WeightKg = row.weightKg.Float64
	c.ActivityLevel = row.activityLevel.String
	c.Goal = row.goal.String
	c.DietType = row.dietType.String

	if row.dob.Valid {
		dob, parseErr := time.Parse(dobFormat, row.dob.String)
		if parseErr != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "malformed date of birth",
				slog.Int64("client_id", c.ID), slog.String("dob", row.dob.String))
		} else {
			c.DOB = &dob
		}
	}

	if err = json.Unmarshal([]byte(row.allergies), &c.Allergies); err != nil {
		return Client{}, fmt.Errorf("decode allergies: %w", err)
	}
	if err = json.Unmarshal([]byte(row.dislikedFoods), &c.DislikedFoods); err != nil {
		return Client{}, fmt.Errorf("decode disliked foods: %w", err)
	}

	return c, nil
}

// encodeRow converts a Client's optional fields to their column
// representations.
func encodeRow(c Client) (dob any, allergies, dislikedFoods string, err error) {
	if c.DOB != nil {
		dob = c.DOB.Format(dobFormat)
	}

	allergiesJSON, err := json.Marshal(c.Allergies)
	if err != nil {
		return nil, "", "", fmt.Errorf("encode allergies: %w", err)
	}
	dislikedJSON, err := json.Marshal(c.DislikedFoods)
	if err != nil {
		return nil, "", "", fmt.Errorf("encode disliked foods: %w", err)
	}

	return dob, string(allergiesJSON), string(dislikedJSON), nil
}

// nullable maps empty strings and zero measurements to NULL columns.
func nullable[T comparable](v T) any {
	var zero T
	if v == zero {
		return nil
	}
	return v
}

func (r *repository) create(ctx context.Context, c Client) (Client, error) {
	coachID := contexthelpers.CoachID(ctx)

	dob, allergies, dislikedFoods, err := encodeRow(c)
	if err != nil {
		return Client{}, err
	}

	err = r.db.ReadWrite.QueryRowContext(ctx, `
		INSERT INTO clients (coach_id, full_name, email, phone, dob, gender, height_cm, weight_kg,
			activity_level, goal, weekly_training_days, diet_type, allergies, disliked_foods, notes_markdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`,
		coachID, c.FullName, nullable(c.Email), nullable(c.Phone), dob, nullable(c.Gender),
		nullable(c.HeightCm), nullable(c.WeightKg), nullable(c.ActivityLevel), nullable(c.Goal),
		c.WeeklyTrainingDays, nullable(c.DietType), allergies, dislikedFoods, c.NotesMarkdown).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Client{}, fmt.Errorf("insert client: %w", err)
	}

	return c, nil
}

func (r *repository) get(ctx context.Context, clientID int64) (Client, error) {
	coachID := contexthelpers.CoachID(ctx)

	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = ? AND coach_id = ?`,
		clientID, coachID)

	c, err := r.scanClient(ctx, row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	if err != nil {
		return Client{}, fmt.Errorf("query client: %w", err)
	}
	return c, nil
}

func (r *repository) list(ctx context.Context) (_ []Client, err error) {
	coachID := contexthelpers.CoachID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE coach_id = ?
		ORDER BY id DESC`,
		coachID)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var clients []Client
	for rows.Next() {
		c, scanErr := r.scanClient(ctx, rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan client row: %w", scanErr)
		}
		clients = append(clients, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client rows: %w", err)
	}

	return clients, nil
}

func (r *repository) update(ctx context.Context, c Client) (Client, error) {
	coachID := contexthelpers.CoachID(ctx)

	dob, allergies, dislikedFoods, err := encodeRow(c)
	if err != nil {
		return Client{}, err
	}

	err = r.db.ReadWrite.QueryRowContext(ctx, `
		UPDATE clients
		SET full_name = ?, email = ?, phone = ?, dob = ?, gender = ?, height_cm = ?,
			weight_kg = ?, activity_level = ?, goal = ?, weekly_training_days = ?,
			diet_type = ?, allergies = ?, disliked_foods = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ? AND coach_id = ?
		RETURNING notes_markdown, created_at, updated_at`,
		c.FullName, nullable(c.Email), nullable(c.Phone), dob, nullable(c.Gender),
		nullable(c.HeightCm), nullable(c.WeightKg), nullable(c.ActivityLevel), nullable(c.Goal),
		c.WeeklyTrainingDays, nullable(c.DietType), allergies, dislikedFoods,
		c.ID, coachID).Scan(&c.NotesMarkdown, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	if err != nil {
		return Client{}, fmt.Errorf("update client: %w", err)
	}

	return c, nil
}

func (r *repository) updateNotes(ctx context.Context, clientID int64, notesMarkdown string) error {
	coachID := contexthelpers.CoachID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE clients
		SET notes_markdown = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ? AND coach_id = ?`,
		notesMarkdown, clientID, coachID)
	if err != nil {
		return fmt.Errorf("update client notes: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) delete(ctx context.Context, clientID int64) error {
	coachID := contexthelpers.CoachID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM clients
		WHERE id = ? AND coach_id = ?`,
		clientID, coachID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
