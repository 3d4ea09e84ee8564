package nutrition

// Slot identifies one of the five fixed meal slots of a plan day.
type Slot string

const (
	SlotBreakfast Slot = "Breakfast"
	SlotSnack1    Slot = "Snack 1"
	SlotLunch     Slot = "Lunch"
	SlotSnack2    Slot = "Snack 2"
	SlotDinner    Slot = "Dinner"
)

// slotOrder is the fixed order meals appear in within a day.
var slotOrder = [5]Slot{SlotBreakfast, SlotSnack1, SlotLunch, SlotSnack2, SlotDinner}

// foodItem is a catalog entry with macros per the reference serving.
type foodItem struct {
	name     string
	proteinG float64
	carbsG   float64
	fatsG    float64
	calories float64
	serving  string
}

// foodCatalog is the immutable reference food table. Meal composition looks
// items up by name, so names must stay unique.
var foodCatalog = []foodItem{
	{name: "Chicken Breast", proteinG: 31, carbsG: 0, fatsG: 3.6, calories: 165, serving: "100g"},
	{name: "White Rice", proteinG: 2.7, carbsG: 28, fatsG: 0.3, calories: 130, serving: "100g"},
	{name: "Eggs", proteinG: 13, carbsG: 1.1, fatsG: 11, calories: 155, serving: "2 eggs"},
	{name: "Oats", proteinG: 13.2, carbsG: 67, fatsG: 6.9, calories: 389, serving: "100g"},
	{name: "Sweet Potato", proteinG: 2, carbsG: 20, fatsG: 0.1, calories: 86, serving: "100g"},
	{name: "Lean Beef", proteinG: 26, carbsG: 0, fatsG: 15, calories: 250, serving: "100g"},
	{name: "Broccoli", proteinG: 2.8, carbsG: 7, fatsG: 0.4, calories: 34, serving: "100g"},
	{name: "Banana", proteinG: 1.3, carbsG: 27, fatsG: 0.3, calories: 105, serving: "1 medium"},
	{name: "Salmon", proteinG: 25, carbsG: 0, fatsG: 13, calories: 208, serving: "100g"},
	{name: "Greek Yogurt", proteinG: 10, carbsG: 3.6, fatsG: 0.4, calories: 59, serving: "100g"},
	{name: "Almonds", proteinG: 6, carbsG: 6, fatsG: 14, calories: 164, serving: "28g"},
	{name: "Spinach", proteinG: 2.9, carbsG: 3.6, fatsG: 0.4, calories: 23, serving: "100g"},
	{name: "Brown Rice", proteinG: 2.6, carbsG: 23, fatsG: 0.9, calories: 111, serving: "100g"},
	{name: "Turkey Breast", proteinG: 29, carbsG: 0, fatsG: 1, calories: 135, serving: "100g"},
	{name: "Apple", proteinG: 0.3, carbsG: 25, fatsG: 0.3, calories: 95, serving: "1 medium"},
}

// slotFoods maps each meal slot to its fixed food selection. Composition is
// keyed by slot identity alone, not by the macro targets.
var slotFoods = map[Slot][]string{
	SlotBreakfast: {"Eggs", "Oats", "Banana"},
	SlotLunch:     {"Chicken Breast", "Brown Rice", "Broccoli"},
	SlotDinner:    {"Salmon", "Sweet Potato", "Spinach"},
	SlotSnack1:    {"Greek Yogurt", "Almonds"},
	SlotSnack2:    {"Turkey Breast", "Apple"},
}

// catalogFood returns the catalog entry for a food name. The slot tables only
// reference catalog names, so a miss is a programming error caught by tests.
func catalogFood(name string) (foodItem, bool) {
	for _, item := range foodCatalog {
		if item.name == name {
			return item, true
		}
	}
	return foodItem{}, false
}
