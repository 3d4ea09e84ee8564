package workout

// The six workout templates below are the immutable building blocks every
// program is assembled from. They are value tables fixed at compile time and
// never mutated at runtime; generation copies their exercises into program
// days.

var pushTemplate = Template{
	Focus: "Push",
	Exercises: []Exercise{
		{Name: "Barbell Bench Press", Sets: 4, Reps: "8-10", Notes: "Compound movement", OrderIndex: 0},
		{Name: "Incline Dumbbell Press", Sets: 3, Reps: "10-12", Notes: "Upper chest focus", OrderIndex: 1},
		{Name: "Overhead Press", Sets: 4, Reps: "8-10", Notes: "Shoulder compound", OrderIndex: 2},
		{Name: "Lateral Raises", Sets: 3, Reps: "12-15", Notes: "Side delts", OrderIndex: 3},
		{Name: "Tricep Dips", Sets: 3, Reps: "10-12", Notes: "Bodyweight or weighted", OrderIndex: 4},
		{Name: "Tricep Pushdowns", Sets: 3, Reps: "12-15", Notes: "Cable isolation", OrderIndex: 5},
	},
}

var pullTemplate = Template{
	Focus: "Pull",
	Exercises: []Exercise{
		{Name: "Pull-ups", Sets: 4, Reps: "8-10", Notes: "Assisted if needed", OrderIndex: 0},
		{Name: "Barbell Rows", Sets: 4, Reps: "8-10", Notes: "Back thickness", OrderIndex: 1},
		{Name: "Lat Pulldowns", Sets: 3, Reps: "10-12", Notes: "Back width", OrderIndex: 2},
		{Name: "Face Pulls", Sets: 3, Reps: "15-20", Notes: "Rear delts", OrderIndex: 3},
		{Name: "Barbell Curls", Sets: 3, Reps: "10-12", Notes: "Bicep mass", OrderIndex: 4},
		{Name: "Hammer Curls", Sets: 3, Reps: "12-15", Notes: "Brachialis focus", OrderIndex: 5},
	},
}

var legsTemplate = Template{
	Focus: "Legs",
	Exercises: []Exercise{
		{Name: "Barbell Squat", Sets: 4, Reps: "8-10", Notes: "King of exercises", OrderIndex: 0},
		{Name: "Romanian Deadlift", Sets: 4, Reps: "8-10", Notes: "Hamstring focus", OrderIndex: 1},
		{Name: "Leg Press", Sets: 3, Reps: "12-15", Notes: "Quad volume", OrderIndex: 2},
		{Name: "Walking Lunges", Sets: 3, Reps: "12 each", Notes: "Unilateral work", OrderIndex: 3},
		{Name: "Leg Curls", Sets: 3, Reps: "12-15", Notes: "Hamstring isolation", OrderIndex: 4},
		{Name: "Calf Raises", Sets: 4, Reps: "15-20", Notes: "Standing or seated", OrderIndex: 5},
	},
}

var upperTemplate = Template{
	Focus: "Upper Body",
	Exercises: []Exercise{
		{Name: "Bench Press", Sets: 4, Reps: "8-10", Notes: "Chest compound", OrderIndex: 0},
		{Name: "Barbell Rows", Sets: 4, Reps: "8-10", Notes: "Back compound", OrderIndex: 1},
		{Name: "Overhead Press", Sets: 3, Reps: "8-10", Notes: "Shoulders", OrderIndex: 2},
		{Name: "Pull-ups", Sets: 3, Reps: "8-10", Notes: "Back width", OrderIndex: 3},
		{Name: "Dumbbell Curls", Sets: 3, Reps: "10-12", Notes: "Biceps", OrderIndex: 4},
		{Name: "Tricep Extensions", Sets: 3, Reps: "10-12", Notes: "Triceps", OrderIndex: 5},
	},
}

var lowerTemplate = Template{
	Focus: "Lower Body",
	Exercises: []Exercise{
		{Name: "Squat", Sets: 4, Reps: "8-10", Notes: "Quad focus", OrderIndex: 0},
		{Name: "Deadlift", Sets: 4, Reps: "6-8", Notes: "Posterior chain", OrderIndex: 1},
		{Name: "Leg Press", Sets: 3, Reps: "12-15", Notes: "Volume work", OrderIndex: 2},
		{Name: "Leg Curls", Sets: 3, Reps: "12-15", Notes: "Hamstrings", OrderIndex: 3},
		{Name: "Leg Extensions", Sets: 3, Reps: "12-15", Notes: "Quad isolation", OrderIndex: 4},
		{Name: "Calf Raises", Sets: 4, Reps: "15-20", Notes: "Calves", OrderIndex: 5},
	},
}

var fullBodyTemplate = Template{
	Focus: "Full Body",
	Exercises: []Exercise{
		{Name: "Squat", Sets: 3, Reps: "8-10", Notes: "Lower body compound", OrderIndex: 0},
		{Name: "Bench Press", Sets: 3, Reps: "8-10", Notes: "Upper body push", OrderIndex: 1},
		{Name: "Barbell Rows", Sets: 3, Reps: "8-10", Notes: "Upper body pull", OrderIndex: 2},
		{Name: "Overhead Press", Sets: 3, Reps: "8-10", Notes: "Shoulders", OrderIndex: 3},
		{Name: "Romanian Deadlift", Sets: 3, Reps: "10-12", Notes: "Hamstrings", OrderIndex: 4},
		{Name: "Pull-ups", Sets: 3, Reps: "8-10", Notes: "Back", OrderIndex: 5},
	},
}
