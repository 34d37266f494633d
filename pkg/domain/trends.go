package domain

// DefaultTrendDays is the window used when the caller does not pick one.
const DefaultTrendDays = 7

// DailyScore is the combined health score for one day.
type DailyScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// TaskRate is the task completion percentage for one day.
type TaskRate struct {
	Date string `json:"date"`
	Rate int    `json:"rate"`
}

// ExerciseTrends holds per-day exercise series, oldest first.
type ExerciseTrends struct {
	Calories []int `json:"calories"`
	Duration []int `json:"duration"`
	Steps    []int `json:"steps"`
}

// DietTrends holds per-day diet series, oldest first.
type DietTrends struct {
	AvgHealthScores []int `json:"avg_health_scores"`
	DailyCalories   []int `json:"daily_calories"`
}

// Trends is the payload of GET /trends.
type Trends struct {
	DailyScores        []DailyScore   `json:"daily_scores"`
	Exercise           ExerciseTrends `json:"exercise_trends"`
	TaskCompletionRate []TaskRate     `json:"task_completion_rate"`
	Diet               DietTrends     `json:"diet_trends"`
}

// AverageScore returns the mean of the daily scores, or 0 for an empty series.
func (t Trends) AverageScore() int {
	if len(t.DailyScores) == 0 {
		return 0
	}
	sum := 0
	for _, d := range t.DailyScores {
		sum += d.Score
	}
	return sum / len(t.DailyScores)
}
