package workout_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mkarvo/coachapp/internal/errors"
	"github.com/mkarvo/coachapp/internal/workout"
)

func TestParseSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    workout.SplitType
		wantErr bool
	}{
		{name: "push pull legs", input: "Push/Pull/Legs", want: workout.SplitPushPullLegs},
		{name: "upper lower", input: "Upper/Lower", want: workout.SplitUpperLower},
		{name: "full body", input: "Full Body", want: workout.SplitFullBody},
		{name: "unknown split", input: "Bro Split", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "case matters", input: "full body", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := workout.ParseSplit(tt.input)
			if tt.wantErr {
				if !errors.Is(err, workout.ErrUnknownSplit) {
					t.Fatalf("ParseSplit(%q) error = %v, want ErrUnknownSplit", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSplit(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSplit(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTemplatesForSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		split        workout.SplitType
		trainingDays int
		wantFocuses  []string
	}{
		{
			name:         "push pull legs below six days uses one rotation",
			split:        workout.SplitPushPullLegs,
			trainingDays: 5,
			wantFocuses:  []string{"Push", "Pull", "Legs"},
		},
		{
			name:         "push pull legs at six days doubles the rotation",
			split:        workout.SplitPushPullLegs,
			trainingDays: 6,
			wantFocuses:  []string{"Push", "Pull", "Legs", "Push", "Pull", "Legs"},
		},
		{
			name:         "upper lower below four days",
			split:        workout.SplitUpperLower,
			trainingDays: 3,
			wantFocuses:  []string{"Upper Body", "Lower Body"},
		},
		{
			name:         "upper lower at four days",
			split:        workout.SplitUpperLower,
			trainingDays: 4,
			wantFocuses:  []string{"Upper Body", "Lower Body", "Upper Body", "Lower Body"},
		},
		{
			name:         "full body repeats per training day",
			split:        workout.SplitFullBody,
			trainingDays: 3,
			wantFocuses:  []string{"Full Body", "Full Body", "Full Body"},
		},
		{
			name:         "full body caps at four repeats",
			split:        workout.SplitFullBody,
			trainingDays: 6,
			wantFocuses:  []string{"Full Body", "Full Body", "Full Body", "Full Body"},
		},
		{
			name:         "unknown split yields no templates",
			split:        workout.SplitType("Bro Split"),
			trainingDays: 3,
			wantFocuses:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			templates := workout.TemplatesForSplit(tt.split, tt.trainingDays)

			var focuses []string
			for _, template := range templates {
				focuses = append(focuses, template.Focus)
				if len(template.Exercises) != 6 {
					t.Errorf("template %q has %d exercises, want 6", template.Focus, len(template.Exercises))
				}
			}
			if diff := cmp.Diff(tt.wantFocuses, focuses); diff != "" {
				t.Errorf("template focuses mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchedule(t *testing.T) {
	t.Parallel()

	t.Run("six day push pull legs fills 24 days", func(t *testing.T) {
		t.Parallel()

		templates := workout.TemplatesForSplit(workout.SplitPushPullLegs, 6)
		schedule := workout.Schedule(templates, 6)

		if len(schedule) != 24 {
			t.Fatalf("len(schedule) = %d, want 24", len(schedule))
		}

		wantCycle := []string{"Push", "Pull", "Legs"}
		for i, day := range schedule {
			if want := wantCycle[i%3]; day.Template.Focus != want {
				t.Errorf("schedule[%d].Template.Focus = %q, want %q", i, day.Template.Focus, want)
			}
		}
	})

	t.Run("four training days occupy the start of each week", func(t *testing.T) {
		t.Parallel()

		templates := workout.TemplatesForSplit(workout.SplitUpperLower, 4)
		schedule := workout.Schedule(templates, 4)

		var dayNumbers []int
		for _, day := range schedule {
			dayNumbers = append(dayNumbers, day.DayNumber)
		}
		want := []int{1, 2, 3, 4, 8, 9, 10, 11, 15, 16, 17, 18, 22, 23, 24, 25}
		if diff := cmp.Diff(want, dayNumbers); diff != "" {
			t.Errorf("day numbers mismatch (-want +got):\n%s", diff)
		}

		for _, day := range schedule {
			wantWeek := (day.DayNumber-1)/7 + 1
			if day.WeekNumber != wantWeek {
				t.Errorf("day %d has week %d, want %d", day.DayNumber, day.WeekNumber, wantWeek)
			}
		}
	})

	t.Run("zero training days yields an empty schedule", func(t *testing.T) {
		t.Parallel()

		templates := workout.TemplatesForSplit(workout.SplitFullBody, 3)
		if schedule := workout.Schedule(templates, 0); schedule != nil {
			t.Errorf("Schedule(templates, 0) = %v, want nil", schedule)
		}
	})

	t.Run("out of range training days clamp to a full week", func(t *testing.T) {
		t.Parallel()

		templates := workout.TemplatesForSplit(workout.SplitPushPullLegs, 6)
		schedule := workout.Schedule(templates, 12)

		if len(schedule) != 28 {
			t.Fatalf("len(schedule) = %d, want 28", len(schedule))
		}
		if last := schedule[len(schedule)-1]; last.DayNumber != 28 || last.WeekNumber != 4 {
			t.Errorf("last day = %d week %d, want day 28 week 4", last.DayNumber, last.WeekNumber)
		}
	})

	t.Run("no templates yields an empty schedule", func(t *testing.T) {
		t.Parallel()

		if schedule := workout.Schedule(nil, 3); schedule != nil {
			t.Errorf("Schedule(nil, 3) = %v, want nil", schedule)
		}
	})
}
