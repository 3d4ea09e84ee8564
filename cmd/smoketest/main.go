package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mkarvo/coachapp/internal/e2etest"
	"github.com/mkarvo/coachapp/internal/logging"
	"github.com/mkarvo/coachapp/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	coachCount      = 4
	scenarioTimeout = 30 * time.Second
)

// coachingScenario walks one coach through the whole API: create a client,
// compute macros, generate a meal plan and a program, log a session and ask
// for the next weight.
func coachingScenario(ctx context.Context, url string, coachIndex int) error {
	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	api, err := e2etest.NewClient(url)
	if err != nil {
		return fmt.Errorf("new client: %w", err)
	}

	resp, err := api.PostJSON(ctx, "/api/clients", map[string]any{
		"full_name":            fmt.Sprintf("Smoke Client %d", coachIndex),
		"gender":               "female",
		"height_cm":            170,
		"weight_kg":            65,
		"activity_level":       "moderate",
		"goal":                 "muscle_gain",
		"weekly_training_days": 4,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, &created); err != nil {
		return fmt.Errorf("decode created client: %w", err)
	}

	if resp, err = api.Get(ctx, fmt.Sprintf("/api/clients/%d/macros", created.ID)); err != nil {
		return fmt.Errorf("get macros: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusOK, nil); err != nil {
		return fmt.Errorf("macros response: %w", err)
	}

	if resp, err = api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/meal-plans", created.ID), nil); err != nil {
		return fmt.Errorf("generate meal plan: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("meal plan response: %w", err)
	}

	if resp, err = api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/programs", created.ID),
		map[string]string{"split_type": "Upper/Lower"}); err != nil {
		return fmt.Errorf("generate program: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("program response: %w", err)
	}

	if resp, err = api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/sessions", created.ID),
		map[string]any{
			"date": time.Now().UTC().Format("2006-01-02"),
			"sets": []map[string]any{
				{"exercise_name": "Bench Press", "set_number": 1, "weight_kg": 40, "reps": 8, "rpe": 7, "success": true},
				{"exercise_name": "Bench Press", "set_number": 2, "weight_kg": 40, "reps": 8, "rpe": 7, "success": true},
			},
		}); err != nil {
		return fmt.Errorf("log session: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("session response: %w", err)
	}

	if resp, err = api.Get(ctx, fmt.Sprintf("/api/clients/%d/suggestions/Bench%%20Press", created.ID)); err != nil {
		return fmt.Errorf("get suggestion: %w", err)
	}
	var suggestion struct {
		SuggestedWeightKg float64 `json:"suggested_weight_kg"`
	}
	if err = e2etest.DecodeJSON(resp, http.StatusOK, &suggestion); err != nil {
		return fmt.Errorf("decode suggestion: %w", err)
	}
	if suggestion.SuggestedWeightKg <= 0 {
		return fmt.Errorf("suggested weight %v is not positive", suggestion.SuggestedWeightKg)
	}

	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	probe, err := e2etest.NewClient(url)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = probe.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	// Each scenario runs as its own coach session.
	g, gctx := errgroup.WithContext(ctx)
	for i := range coachCount {
		g.Go(func() error {
			return coachingScenario(gctx, url, i)
		})
	}
	if err = g.Wait(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error running scenarios", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
