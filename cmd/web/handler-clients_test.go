package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/mkarvo/coachapp/internal/client"
	"github.com/mkarvo/coachapp/internal/e2etest"
	"github.com/mkarvo/coachapp/internal/nutrition"
	"github.com/mkarvo/coachapp/internal/testhelpers"
	"github.com/mkarvo/coachapp/internal/workout"
)

func Test_application_apiFlow(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	api := server.Client()
	var created client.Client

	t.Run("create client", func(t *testing.T) {
		resp, err := api.PostJSON(ctx, "/api/clients", map[string]any{
			"full_name":            "Sam Carter",
			"gender":               "male",
			"height_cm":            180,
			"weight_kg":            80,
			"activity_level":       "moderate",
			"goal":                 "fat_loss",
			"weekly_training_days": 6,
			"allergies":            []string{},
			"disliked_foods":       []string{},
		})
		if err != nil {
			t.Fatalf("Failed to create client: %v", err)
		}
		if err = e2etest.DecodeJSON(resp, http.StatusCreated, &created); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if created.ID == 0 {
			t.Fatal("created client has zero ID")
		}
	})

	t.Run("list clients", func(t *testing.T) {
		resp, err := api.Get(ctx, "/api/clients")
		if err != nil {
			t.Fatalf("Failed to list clients: %v", err)
		}
		var clients []client.Client
		if err = e2etest.DecodeJSON(resp, http.StatusOK, &clients); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(clients) != 1 || clients[0].ID != created.ID {
			t.Errorf("unexpected client list: %+v", clients)
		}
	})

	t.Run("macro targets", func(t *testing.T) {
		resp, err := api.Get(ctx, fmt.Sprintf("/api/clients/%d/macros", created.ID))
		if err != nil {
			t.Fatalf("Failed to get macros: %v", err)
		}
		var targets nutrition.Targets
		if err = e2etest.DecodeJSON(resp, http.StatusOK, &targets); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		want := nutrition.Targets{Calories: 2207, ProteinG: 160, CarbsG: 240, FatsG: 67}
		if targets != want {
			t.Errorf("targets = %+v, want %+v", targets, want)
		}
	})

	t.Run("generate meal plan", func(t *testing.T) {
		resp, err := api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/meal-plans", created.ID), nil)
		if err != nil {
			t.Fatalf("Failed to generate meal plan: %v", err)
		}
		var plan nutrition.Plan
		if err = e2etest.DecodeJSON(resp, http.StatusCreated, &plan); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(plan.Days) != nutrition.PlanDays {
			t.Errorf("plan has %d days, want %d", len(plan.Days), nutrition.PlanDays)
		}

		resp, err = api.Get(ctx, fmt.Sprintf("/api/clients/%d/meal-plans/current", created.ID))
		if err != nil {
			t.Fatalf("Failed to get current meal plan: %v", err)
		}
		var current nutrition.Plan
		if err = e2etest.DecodeJSON(resp, http.StatusOK, &current); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if current.ID != plan.ID {
			t.Errorf("current plan ID = %d, want %d", current.ID, plan.ID)
		}
	})

	t.Run("generate program", func(t *testing.T) {
		resp, err := api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/programs", created.ID),
			map[string]string{"split_type": "Push/Pull/Legs"})
		if err != nil {
			t.Fatalf("Failed to generate program: %v", err)
		}
		var program workout.Program
		if err = e2etest.DecodeJSON(resp, http.StatusCreated, &program); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(program.Days) != 24 {
			t.Errorf("program has %d days, want 24 for six training days", len(program.Days))
		}
	})

	t.Run("unknown split is unprocessable", func(t *testing.T) {
		resp, err := api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/programs", created.ID),
			map[string]string{"split_type": "Bro Split"})
		if err != nil {
			t.Fatalf("Failed to post program: %v", err)
		}
		if err = e2etest.DecodeJSON(resp, http.StatusUnprocessableEntity, nil); err != nil {
			t.Fatalf("unexpected response: %v", err)
		}
	})

	t.Run("log session and get suggestion", func(t *testing.T) {
		resp, err := api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/sessions", created.ID),
			map[string]any{
				"date": "2026-08-30",
				"sets": []map[string]any{
					{"exercise_name": "Barbell Bench Press", "set_number": 1, "weight_kg": 100, "reps": 8, "rpe": 6, "success": true},
					{"exercise_name": "Barbell Bench Press", "set_number": 2, "weight_kg": 100, "reps": 8, "rpe": 7, "success": true},
				},
			})
		if err != nil {
			t.Fatalf("Failed to log session: %v", err)
		}
		if err = e2etest.DecodeJSON(resp, http.StatusCreated, nil); err != nil {
			t.Fatalf("unexpected response: %v", err)
		}

		resp, err = api.Get(ctx, fmt.Sprintf("/api/clients/%d/suggestions/%s",
			created.ID, url.PathEscape("Barbell Bench Press")))
		if err != nil {
			t.Fatalf("Failed to get suggestion: %v", err)
		}
		var suggestion workout.Suggestion
		if err = e2etest.DecodeJSON(resp, http.StatusOK, &suggestion); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if suggestion.SuggestedWeightKg != 102.5 {
			t.Errorf("SuggestedWeightKg = %v, want 102.5", suggestion.SuggestedWeightKg)
		}
	})

	t.Run("cold start suggestion", func(t *testing.T) {
		resp, err := api.Get(ctx, fmt.Sprintf("/api/clients/%d/suggestions/Deadlift", created.ID))
		if err != nil {
			t.Fatalf("Failed to get suggestion: %v", err)
		}
		var suggestion workout.Suggestion
		if err = e2etest.DecodeJSON(resp, http.StatusOK, &suggestion); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if suggestion.SuggestedWeightKg != 20 || suggestion.LastWeightKg != 0 {
			t.Errorf("unexpected cold start suggestion: %+v", suggestion)
		}
	})

	t.Run("generate and render notes", func(t *testing.T) {
		resp, err := api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/notes/generate", created.ID), nil)
		if err != nil {
			t.Fatalf("Failed to generate notes: %v", err)
		}
		var notes struct {
			NotesMarkdown string `json:"notes_markdown"`
		}
		if err = e2etest.DecodeJSON(resp, http.StatusOK, &notes); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !strings.Contains(notes.NotesMarkdown, "## Profile") {
			t.Errorf("notes missing profile section:\n%s", notes.NotesMarkdown)
		}

		resp, err = api.Get(ctx, fmt.Sprintf("/api/clients/%d/notes", created.ID))
		if err != nil {
			t.Fatalf("Failed to get notes: %v", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if contentType := resp.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "text/html") {
			t.Errorf("Content-Type = %q, want text/html", contentType)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("Failed to read body: %v", err)
		}
		if !strings.Contains(string(body), "<h2") {
			t.Errorf("notes not rendered to HTML:\n%s", body)
		}
	})

	t.Run("export client data", func(t *testing.T) {
		resp, err := api.Get(ctx, fmt.Sprintf("/api/clients/%d/export", created.ID))
		if err != nil {
			t.Fatalf("Failed to export client: %v", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if disposition := resp.Header.Get("Content-Disposition"); !strings.Contains(disposition, "attachment") {
			t.Errorf("Content-Disposition = %q, want attachment", disposition)
		}
	})

	t.Run("update and delete client", func(t *testing.T) {
		created.FullName = "Sam Carter-Lee"
		resp, err := api.PutJSON(ctx, fmt.Sprintf("/api/clients/%d", created.ID), created)
		if err != nil {
			t.Fatalf("Failed to update client: %v", err)
		}
		var updated client.Client
		if err = e2etest.DecodeJSON(resp, http.StatusOK, &updated); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if updated.FullName != "Sam Carter-Lee" {
			t.Errorf("FullName = %q, want %q", updated.FullName, "Sam Carter-Lee")
		}

		resp, err = api.Delete(ctx, fmt.Sprintf("/api/clients/%d", created.ID))
		if err != nil {
			t.Fatalf("Failed to delete client: %v", err)
		}
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("delete status = %d, want 204", resp.StatusCode)
		}
		_ = resp.Body.Close()

		resp, err = api.Get(ctx, fmt.Sprintf("/api/clients/%d", created.ID))
		if err != nil {
			t.Fatalf("Failed to get client: %v", err)
		}
		if err = e2etest.DecodeJSON(resp, http.StatusNotFound, nil); err != nil {
			t.Fatalf("unexpected response: %v", err)
		}
	})
}

func Test_application_coachIsolation(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	first := server.Client()
	resp, err := first.PostJSON(ctx, "/api/clients", map[string]any{"full_name": "Coach One Client"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	var created client.Client
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, &created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// A fresh cookie jar means a fresh session and therefore a new coach.
	second, err := e2etest.NewClient(server.URL())
	if err != nil {
		t.Fatalf("Failed to create second client: %v", err)
	}

	resp, err = second.Get(ctx, "/api/clients")
	if err != nil {
		t.Fatalf("Failed to list clients: %v", err)
	}
	var clients []client.Client
	if err = e2etest.DecodeJSON(resp, http.StatusOK, &clients); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("second coach sees %d clients, want 0", len(clients))
	}

	resp, err = second.Get(ctx, fmt.Sprintf("/api/clients/%d", created.ID))
	if err != nil {
		t.Fatalf("Failed to get client: %v", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusNotFound, nil); err != nil {
		t.Fatalf("unexpected response: %v", err)
	}
}
