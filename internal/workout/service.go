package workout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkarvo/coachapp/internal/sqlite"
)

// Service generates workout programs, records training sessions and
// suggests working weights for the next session.
type Service struct {
	repo   *repository
	logger *slog.Logger
}

func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   newRepository(db, logger),
		logger: logger,
	}
}

// GenerateProgram builds and persists a four-week program for the client
// using the given split and the client's weekly training-day count.
func (s *Service) GenerateProgram(ctx context.Context, clientID int64, split string) (Program, error) {
	splitType, err := ParseSplit(split)
	if err != nil {
		return Program{}, err
	}

	trainingDays, err := s.repo.clientTrainingDays(ctx, clientID)
	if err != nil {
		return Program{}, fmt.Errorf("load client: %w", err)
	}
	trainingDays = ClampTrainingDays(trainingDays)

	templates := TemplatesForSplit(splitType, trainingDays)
	scheduled := Schedule(templates, trainingDays)

	program := Program{
		ClientID:  clientID,
		SplitType: splitType,
	}
	for _, day := range scheduled {
		program.Days = append(program.Days, Day{
			DayNumber:  day.DayNumber,
			WeekNumber: day.WeekNumber,
			Focus:      day.Template.Focus,
			Exercises:  day.Template.Exercises,
		})
	}

	program, err = s.repo.createProgram(ctx, program)
	if err != nil {
		return Program{}, fmt.Errorf("create program: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated workout program",
		slog.Int64("client_id", clientID),
		slog.Int64("program_id", program.ID),
		slog.String("split_type", string(splitType)),
		slog.Int("training_days", trainingDays))

	return program, nil
}

// CurrentProgram returns the client's most recent program.
func (s *Service) CurrentProgram(ctx context.Context, clientID int64) (Program, error) {
	return s.repo.latestProgram(ctx, clientID)
}

// ListPrograms returns program headers for the client, newest first.
func (s *Service) ListPrograms(ctx context.Context, clientID int64) ([]Program, error) {
	return s.repo.listPrograms(ctx, clientID)
}

// LogSession records a completed training session with its sets.
func (s *Service) LogSession(ctx context.Context, session Session) (Session, error) {
	if err := s.repo.clientExists(ctx, session.ClientID); err != nil {
		return Session{}, fmt.Errorf("load client: %w", err)
	}
	if session.Date.IsZero() {
		session.Date = time.Now().UTC()
	}

	session, err := s.repo.createSession(ctx, session)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "logged workout session",
		slog.Int64("client_id", session.ClientID),
		slog.Int64("session_id", session.ID),
		slog.Int("set_count", len(session.Sets)))

	return session, nil
}

// ListSessions returns the client's sessions with sets, newest first.
func (s *Service) ListSessions(ctx context.Context, clientID int64) ([]Session, error) {
	return s.repo.listSessions(ctx, clientID)
}

// SuggestWeight estimates the next working weight for an exercise from the
// client's recent session history.
func (s *Service) SuggestWeight(ctx context.Context, clientID int64, exerciseName string) (Suggestion, error) {
	if err := s.repo.clientExists(ctx, clientID); err != nil {
		return Suggestion{}, fmt.Errorf("load client: %w", err)
	}

	recent, err := s.repo.recentSessionSets(ctx, clientID, exerciseName)
	if err != nil {
		return Suggestion{}, fmt.Errorf("load recent sets: %w", err)
	}

	return SuggestNextWeight(recent), nil
}
