package client

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/mkarvo/coachapp/internal/sqlite"
	"github.com/yuin/goldmark"
)

// Service manages client profiles and their coaching notes.
type Service struct {
	repo     *repository
	db       *sqlite.Database
	notes    *notesGenerator
	markdown goldmark.Markdown
	logger   *slog.Logger
}

// NewService creates the client service. An empty openaiAPIKey disables AI
// note generation in favor of the deterministic template.
func NewService(db *sqlite.Database, openaiAPIKey string, logger *slog.Logger) *Service {
	return &Service{
		repo:     newRepository(db, logger),
		db:       db,
		notes:    newNotesGenerator(openaiAPIKey, logger),
		markdown: goldmark.New(),
		logger:   logger,
	}
}

// Create validates and stores a new client for the coach in the context.
func (s *Service) Create(ctx context.Context, c Client) (Client, error) {
	c.normalize()
	if err := c.validate(); err != nil {
		return Client{}, err
	}

	created, err := s.repo.create(ctx, c)
	if err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "created client",
		slog.Int64("client_id", created.ID))

	return created, nil
}

// Get returns one client of the coach in the context.
func (s *Service) Get(ctx context.Context, clientID int64) (Client, error) {
	return s.repo.get(ctx, clientID)
}

// List returns the coach's clients, newest first.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.list(ctx)
}

// Update validates and stores changed profile fields. Coaching notes are
// managed separately and survive updates untouched.
func (s *Service) Update(ctx context.Context, c Client) (Client, error) {
	c.normalize()
	if err := c.validate(); err != nil {
		return Client{}, err
	}

	updated, err := s.repo.update(ctx, c)
	if err != nil {
		return Client{}, err
	}

	return updated, nil
}

// Delete removes a client and, through foreign keys, all their plans,
// programs and sessions.
func (s *Service) Delete(ctx context.Context, clientID int64) error {
	if err := s.repo.delete(ctx, clientID); err != nil {
		return err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "deleted client",
		slog.Int64("client_id", clientID))

	return nil
}

// GenerateNotes produces a fresh coaching summary for the client, stores it
// and returns the markdown.
func (s *Service) GenerateNotes(ctx context.Context, clientID int64) (string, error) {
	c, err := s.repo.get(ctx, clientID)
	if err != nil {
		return "", err
	}

	notes, err := s.notes.Generate(ctx, c)
	if err != nil {
		return "", fmt.Errorf("generate notes: %w", err)
	}

	if err = s.repo.updateNotes(ctx, clientID, notes); err != nil {
		return "", err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated coaching notes",
		slog.Int64("client_id", clientID),
		slog.Bool("ai", s.notes.enabled))

	return notes, nil
}

// NotesHTML renders the client's stored coaching notes to an HTML fragment.
func (s *Service) NotesHTML(ctx context.Context, clientID int64) (string, error) {
	c, err := s.repo.get(ctx, clientID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err = s.markdown.Convert([]byte(c.NotesMarkdown), &buf); err != nil {
		return "", fmt.Errorf("render notes markdown: %w", err)
	}

	return buf.String(), nil
}

// Export writes all data of one client to a standalone sqlite file under
// basePath and returns the file's path.
func (s *Service) Export(ctx context.Context, clientID int64, basePath string) (string, error) {
	if _, err := s.repo.get(ctx, clientID); err != nil {
		return "", err
	}

	path, err := s.db.CreateClientExport(ctx, clientID, basePath)
	if err != nil {
		return "", fmt.Errorf("create client export: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "exported client data",
		slog.Int64("client_id", clientID),
		slog.String("path", path))

	return path, nil
}
