package domain

// ExerciseReport is the data recognized from an uploaded workout screenshot.
type ExerciseReport struct {
	ExerciseType string `json:"exercise_type"`
	DurationMin  int    `json:"duration_min"`
	Calories     int    `json:"calories"`
	Steps        *int   `json:"steps,omitempty"`
	AvgHeartRate *int   `json:"avg_heart_rate,omitempty"`
	MaxHeartRate *int   `json:"max_heart_rate,omitempty"`
	Score        int    `json:"score"`
	SourceDevice string `json:"source_device"` // "apple", "huawei", "unknown"
	Date         string `json:"date"`
}
