package workout

// Program dimensions shared by generation and persistence.
const (
	ProgramWeeks = 4
	DaysPerWeek  = 7
	ProgramDays  = ProgramWeeks * DaysPerWeek
)

// ClampTrainingDays limits a weekly training-day count to [0, 7]. Profiles
// are free-form enough that out-of-range values do occur.
func ClampTrainingDays(trainingDays int) int {
	if trainingDays < 0 {
		return 0
	}
	if trainingDays > DaysPerWeek {
		return DaysPerWeek
	}
	return trainingDays
}

// TemplatesForSplit maps a split type to the ordered template cycle the
// 28-day schedule rotates through.
//
// An unknown split yields an empty cycle and therefore an empty schedule;
// callers that want an error should validate with ParseSplit first.
func TemplatesForSplit(split SplitType, trainingDays int) []Template {
	switch split {
	case SplitPushPullLegs:
		if trainingDays >= 6 {
			return []Template{pushTemplate, pullTemplate, legsTemplate, pushTemplate, pullTemplate, legsTemplate}
		}
		return []Template{pushTemplate, pullTemplate, legsTemplate}
	case SplitUpperLower:
		if trainingDays >= 4 {
			return []Template{upperTemplate, lowerTemplate, upperTemplate, lowerTemplate}
		}
		return []Template{upperTemplate, lowerTemplate}
	case SplitFullBody:
		repeats := min(trainingDays, 4)
		templates := make([]Template, 0, 4)
		for range repeats {
			templates = append(templates, fullBodyTemplate)
		}
		return templates
	default:
		return nil
	}
}

// Schedule distributes the template cycle over a 28-day calendar.
//
// Each of the 4 weeks fills its first trainingDays weekdays with the next
// template in round-robin order; the remaining days rest. The result always
// holds exactly 4*trainingDays scheduled days after clamping.
func Schedule(templates []Template, trainingDays int) []ScheduledDay {
	trainingDays = ClampTrainingDays(trainingDays)
	if len(templates) == 0 || trainingDays == 0 {
		return nil
	}

	schedule := make([]ScheduledDay, 0, ProgramWeeks*trainingDays)
	templateIndex := 0

	for week := 1; week <= ProgramWeeks; week++ {
		placedThisWeek := 0
		for day := 1; day <= DaysPerWeek; day++ {
			if placedThisWeek >= trainingDays {
				break
			}
			schedule = append(schedule, ScheduledDay{
				DayNumber:  (week-1)*DaysPerWeek + day,
				WeekNumber: week,
				Template:   templates[templateIndex%len(templates)],
			})
			templateIndex++
			placedThisWeek++
		}
	}

	return schedule
}
