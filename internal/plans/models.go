package plans

import "time"

// Food is one item of a meal with its portion.
type Food struct {
	Name   string `json:"name" bson:"name"`
	Amount string `json:"amount" bson:"amount"`
}

// Meal is one moment of a day's eating schedule.
type Meal struct {
	Moment   string  `json:"moment" bson:"moment"`
	Calories float64 `json:"calories" bson:"calories"`
	Notes    string  `json:"notes,omitempty" bson:"notes,omitempty"`
	Done     bool    `json:"done" bson:"done"`
	Foods    []Food  `json:"foods" bson:"foods"`
}

// Day is one named day of a plan.
type Day struct {
	Day   string `json:"day" bson:"day"`
	Meals []Meal `json:"meals" bson:"meals"`
}

// Plan is a nutrition plan a nutritionist assigns to a patient. The nested
// days/meals/foods tree is stored as one document.
type Plan struct {
	ID             string    `json:"id" bson:"id"`
	PatientID      int64     `json:"patientId" bson:"patientId"`
	NutritionistID int64     `json:"nutritionistId" bson:"nutritionistId"`
	Title          string    `json:"title" bson:"title"`
	Description    string    `json:"description,omitempty" bson:"description,omitempty"`
	Days           []Day     `json:"days" bson:"days"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PlanReplace carries the mutable fields of an edit. The whole document body
// is replaced; ownership and ids are not touchable.
type PlanReplace struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Days        []Day  `json:"days"`
}
