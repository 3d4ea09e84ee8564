package client_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mkarvo/coachapp/internal/client"
	"github.com/mkarvo/coachapp/internal/contexthelpers"
	"github.com/mkarvo/coachapp/internal/errors"
	"github.com/mkarvo/coachapp/internal/sqlite"
	"github.com/mkarvo/coachapp/internal/testhelpers"
)

// newTestService spins up an in-memory database and returns the service plus
// a context scoped to the bootstrap coach. AI note generation stays disabled
// so tests exercise the deterministic template.
func newTestService(t *testing.T) (*client.Service, context.Context) {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close database: %v", closeErr)
		}
	})

	return client.NewService(db, "", logger), contexthelpers.WithCoachID(ctx, 1)
}

func TestService_CreateGetRoundTrip(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	dob := time.Date(1992, 3, 15, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, client.Client{
		FullName:           "Anna Kowalski",
		Email:              "anna@example.com",
		DOB:                &dob,
		Gender:             "Female",
		HeightCm:           168,
		WeightKg:           62,
		ActivityLevel:      "Light",
		Goal:               "Fat Loss",
		WeeklyTrainingDays: 3,
		DietType:           "vegetarian",
		Allergies:          []string{"peanuts"},
		DislikedFoods:      []string{"broccoli"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create() returned zero ID")
	}
	if created.Gender != "female" || created.ActivityLevel != "light" {
		t.Errorf("enum fields not normalized: gender %q activity %q",
			created.Gender, created.ActivityLevel)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("client mismatch (-created +got):\n%s", diff)
	}
}

func TestService_CreateValidation(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	tests := []struct {
		name   string
		client client.Client
	}{
		{name: "missing full name", client: client.Client{}},
		{name: "unknown gender", client: client.Client{FullName: "X", Gender: "other"}},
		{name: "unknown activity level", client: client.Client{FullName: "X", ActivityLevel: "extreme"}},
		{name: "negative height", client: client.Client{FullName: "X", HeightCm: -1}},
		{name: "implausible weight", client: client.Client{FullName: "X", WeightKg: 900}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.client); !errors.Is(err, client.ErrInvalid) {
				t.Errorf("Create() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestService_TrainingDaysClamped(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, client.Client{FullName: "X", WeeklyTrainingDays: 12})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.WeeklyTrainingDays != 7 {
		t.Errorf("WeeklyTrainingDays = %d, want 7", created.WeeklyTrainingDays)
	}
}

func TestService_ListNewestFirst(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	first, err := svc.Create(ctx, client.Client{FullName: "First"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := svc.Create(ctx, client.Client{FullName: "Second"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	clients, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("List() returned %d clients, want 2", len(clients))
	}
	if clients[0].ID != second.ID || clients[1].ID != first.ID {
		t.Errorf("clients not newest first: got IDs [%d %d], want [%d %d]",
			clients[0].ID, clients[1].ID, second.ID, first.ID)
	}
}

func TestService_UpdatePreservesNotes(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, client.Client{FullName: "Before", Goal: "muscle_gain"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err = svc.GenerateNotes(ctx, created.ID); err != nil {
		t.Fatalf("GenerateNotes() error = %v", err)
	}

	created.FullName = "After"
	created.WeightKg = 85
	updated, err := svc.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.FullName != "After" || updated.WeightKg != 85 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.NotesMarkdown == "" {
		t.Error("update dropped coaching notes")
	}
}

func TestService_UpdateMissingClient(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	_, err := svc.Update(ctx, client.Client{ID: 12345, FullName: "Ghost"})
	if !errors.Is(err, client.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestService_Delete(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, client.Client{FullName: "Temp"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err = svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err = svc.Get(ctx, created.ID); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err = svc.Delete(ctx, created.ID); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestService_NotesFallbackAndRendering(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, client.Client{
		FullName:           "Jonas Berg",
		Goal:               "cutting",
		ActivityLevel:      "moderate",
		WeeklyTrainingDays: 4,
		Allergies:          []string{"shellfish"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	notes, err := svc.GenerateNotes(ctx, created.ID)
	if err != nil {
		t.Fatalf("GenerateNotes() error = %v", err)
	}
	for _, section := range []string{"## Profile", "## Training Focus", "## Nutrition Focus", "## Watchpoints"} {
		if !strings.Contains(notes, section) {
			t.Errorf("notes missing section %q:\n%s", section, notes)
		}
	}
	if !strings.Contains(notes, "reduce body fat") {
		t.Errorf("cutting goal not reflected in notes:\n%s", notes)
	}
	if !strings.Contains(notes, "shellfish") {
		t.Errorf("allergy not reflected in notes:\n%s", notes)
	}

	html, err := svc.NotesHTML(ctx, created.ID)
	if err != nil {
		t.Fatalf("NotesHTML() error = %v", err)
	}
	if !strings.Contains(html, "<h2") || !strings.Contains(html, "Watchpoints") {
		t.Errorf("notes not rendered to HTML:\n%s", html)
	}
}

func TestService_CoachScoping(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, client.Client{FullName: "Mine"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	otherCoach := contexthelpers.WithCoachID(t.Context(), 999)
	if _, err = svc.Get(otherCoach, created.ID); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("Get() for foreign coach error = %v, want ErrNotFound", err)
	}
	if err = svc.Delete(otherCoach, created.ID); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("Delete() for foreign coach error = %v, want ErrNotFound", err)
	}
	clients, err := svc.List(otherCoach)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("List() for foreign coach returned %d clients, want 0", len(clients))
	}
}

func TestService_Export(t *testing.T) {
	t.Parallel()
	svc, ctx := newTestService(t)

	created, err := svc.Create(ctx, client.Client{FullName: "Exported"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	path, err := svc.Export(ctx, created.ID, t.TempDir())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if path == "" {
		t.Error("Export() returned empty path")
	}

	otherCoach := contexthelpers.WithCoachID(t.Context(), 999)
	if _, err = svc.Export(otherCoach, created.ID, t.TempDir()); !errors.Is(err, client.ErrNotFound) {
		t.Errorf("Export() for foreign coach error = %v, want ErrNotFound", err)
	}
}
