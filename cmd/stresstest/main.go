package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mkarvo/coachapp/internal/e2etest"
	"github.com/mkarvo/coachapp/internal/logging"
	"github.com/mkarvo/coachapp/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	setupTimeout            = 30 * time.Second
	scenarioTimeout         = 30 * time.Second
	maxConcurrentSetups     = 10
	maxConcurrentOperations = 20
	baseWeightKg            = 40.0
	weightRangeKg           = 20
	baseReps                = 8
	repsRange               = 8
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
	sessionHistoryWeeks     = 12
	historyTimeout          = 5 * time.Minute
)

// Coach holds a session-scoped client and the coaching client it manages.
type Coach struct {
	API      *e2etest.Client
	ClientID int64
	Label    string
}

// SetupCoach opens a fresh session and creates one coaching client in it.
func SetupCoach(ctx context.Context, url string, coachIndex int, logger *slog.Logger) (*Coach, error) {
	// Each coach needs their own cookie jar and therefore their own session.
	api, err := e2etest.NewClient(url)
	if err != nil {
		return nil, fmt.Errorf("creating client for coach %d: %w", coachIndex, err)
	}

	resp, err := api.PostJSON(ctx, "/api/clients", map[string]any{
		"full_name":            fmt.Sprintf("Stress Client %d", coachIndex),
		"gender":               "male",
		"height_cm":            180,
		"weight_kg":            80,
		"activity_level":       "moderate",
		"goal":                 "muscle_gain",
		"weekly_training_days": 4,
	})
	if err != nil {
		return nil, fmt.Errorf("creating coaching client for coach %d: %w", coachIndex, err)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, &created); err != nil {
		return nil, fmt.Errorf("decoding coaching client for coach %d: %w", coachIndex, err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Coach set up",
		slog.Int("coach_index", coachIndex))

	return &Coach{
		API:      api,
		ClientID: created.ID,
		Label:    fmt.Sprintf("coach_%d", coachIndex),
	}, nil
}

// SetupCoaches creates the specified number of coach sessions.
func SetupCoaches(ctx context.Context, url string, numCoaches int, logger *slog.Logger) ([]*Coach, error) {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting coach setup", slog.Int("num_coaches", numCoaches))

	var (
		coaches   = make([]*Coach, 0, numCoaches)
		coachesMu sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSetups)

	for i := range numCoaches {
		g.Go(func() error {
			setupCtx, cancel := context.WithTimeout(gctx, setupTimeout)
			defer cancel()

			coach, err := SetupCoach(setupCtx, url, i, logger)
			if err != nil {
				return err
			}

			coachesMu.Lock()
			coaches = append(coaches, coach)
			coachesMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("setup coaches: %w", err)
	}

	return coaches, nil
}

// GenerateSessionHistory logs weekly training sessions so the overload
// estimator has realistic data to chew on.
func GenerateSessionHistory(ctx context.Context, coaches []*Coach, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for _, coach := range coaches {
		g.Go(func() error {
			for week := range sessionHistoryWeeks {
				date := time.Now().AddDate(0, 0, -7*(sessionHistoryWeeks-week)).Format("2006-01-02")
				weight := baseWeightKg + float64(time.Now().UnixNano()%weightRangeKg)
				reps := baseReps + int(time.Now().UnixNano()%repsRange)

				resp, err := coach.API.PostJSON(gctx,
					fmt.Sprintf("/api/clients/%d/sessions", coach.ClientID),
					map[string]any{
						"date": date,
						"sets": []map[string]any{
							{"exercise_name": "Bench Press", "set_number": 1, "weight_kg": weight, "reps": reps, "rpe": 7, "success": true},
							{"exercise_name": "Bench Press", "set_number": 2, "weight_kg": weight, "reps": reps, "rpe": 8, "success": true},
							{"exercise_name": "Squat", "set_number": 1, "weight_kg": weight + 20, "reps": reps, "rpe": 8, "success": true},
						},
					})
				if err != nil {
					return fmt.Errorf("log session for %s week %d: %w", coach.Label, week, err)
				}
				if err = e2etest.DecodeJSON(resp, http.StatusCreated, nil); err != nil {
					return fmt.Errorf("session response for %s week %d: %w", coach.Label, week, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("generate session history: %w", err)
	}

	return nil
}

// CoachingScenario represents the hot request path: check macros, generate a
// program, log a session and ask for the next working weight.
func CoachingScenario(ctx context.Context, coach *Coach, logger *slog.Logger) error {
	api := coach.API

	resp, err := api.Get(ctx, fmt.Sprintf("/api/clients/%d/macros", coach.ClientID))
	if err != nil {
		return fmt.Errorf("get macros: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusOK, nil); err != nil {
		return fmt.Errorf("macros response: %w", err)
	}

	if resp, err = api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/programs", coach.ClientID),
		map[string]string{"split_type": "Push/Pull/Legs"}); err != nil {
		return fmt.Errorf("generate program: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("program response: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	weight := baseWeightKg + float64(time.Now().UnixNano()%weightRangeKg)
	if resp, err = api.PostJSON(ctx, fmt.Sprintf("/api/clients/%d/sessions", coach.ClientID),
		map[string]any{
			"date": today,
			"sets": []map[string]any{
				{"exercise_name": "Bench Press", "set_number": 1, "weight_kg": weight, "reps": baseReps, "rpe": 7, "success": true},
			},
		}); err != nil {
		return fmt.Errorf("log session: %w", err)
	}
	if err = e2etest.DecodeJSON(resp, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("session response: %w", err)
	}

	if resp, err = api.Get(ctx,
		fmt.Sprintf("/api/clients/%d/suggestions/Bench%%20Press", coach.ClientID)); err != nil {
		return fmt.Errorf("get suggestion: %w", err)
	}
	var suggestion struct {
		SuggestedWeightKg float64 `json:"suggested_weight_kg"`
	}
	if err = e2etest.DecodeJSON(resp, http.StatusOK, &suggestion); err != nil {
		return fmt.Errorf("decode suggestion: %w", err)
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "Coaching scenario completed",
		slog.String("coach", coach.Label),
		slog.Float64("suggested_weight_kg", suggestion.SuggestedWeightKg))

	return nil
}

// RunLoadTest performs the actual load testing with the prepared coaches.
func RunLoadTest(ctx context.Context, coaches []*Coach, logger *slog.Logger) error {
	coachCount := len(coaches)
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_coaches", coachCount))

	var successCount, failureCount int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for _, coach := range coaches {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			if err := CoachingScenario(scenarioCtx, coach, logger); err != nil {
				atomic.AddInt64(&failureCount, 1)
				// Log individual failures but don't stop the entire test.
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.String("coach", coach.Label),
					slog.Any("error", err))
				return nil
			}

			atomic.AddInt64(&successCount, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount) / float64(coachCount) * percentageMultiplier

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount),
		slog.Int64("failed", failureCount),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}

	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname   = os.Args[1]
		numCoaches = 10
		start      = time.Now()
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

	setupStart := time.Now()
	coaches, err := SetupCoaches(ctx, url, numCoaches, logger)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failed to setup coaches", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Coach setup completed",
		slog.Duration("setup_duration", time.Since(setupStart)),
		slog.Int("coaches", len(coaches)))

	historyStart := time.Now()
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting session history generation",
		slog.Int("num_coaches", len(coaches)),
		slog.Int("weeks_per_client", sessionHistoryWeeks))

	if err = GenerateSessionHistory(ctx, coaches, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "some session history generation failed, continuing with load test",
			slog.Any("error", err))
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Session history generation completed",
		slog.Duration("history_duration", time.Since(historyStart)))

	loadTestStart := time.Now()
	if err = RunLoadTest(ctx, coaches, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)),
		slog.Duration("load_test_duration", time.Since(loadTestStart)),
		slog.Int("coaches_tested", len(coaches)))
}
