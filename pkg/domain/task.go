package domain

// Task types the backend schedules.
const (
	TaskWater    = "water"
	TaskStretch  = "stretch"
	TaskWalk     = "walk"
	TaskDiet     = "diet"
	TaskNoSugar  = "no_sugar"
	TaskSleep    = "sleep"
	TaskExercise = "exercise"
)

// Task is one of the day's scheduled tasks.
type Task struct {
	ID           int64  `json:"id"`
	Name         string `json:"task_name"`
	Type         string `json:"task_type"`
	Done         bool   `json:"done"`
	RewardPoints int    `json:"reward_points"`
}

// TodayTasks is the payload of GET /tasks/today.
type TodayTasks struct {
	Date           string `json:"date"`
	Tasks          []Task `json:"tasks"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
	TotalPoints    int    `json:"total_points"`
}

// Progress returns the completed fraction in [0, 1]. Zero tasks is zero progress.
func (t TodayTasks) Progress() float64 {
	if t.TotalTasks <= 0 {
		return 0
	}
	p := float64(t.CompletedTasks) / float64(t.TotalTasks)
	if p > 1 {
		return 1
	}
	return p
}

// TaskDoneResult is the payload of POST /tasks/done.
type TaskDoneResult struct {
	TaskID           int64 `json:"task_id"`
	Done             bool  `json:"done"`
	RewardPoints     int   `json:"reward_points"`
	TotalPointsToday int   `json:"total_points_today"`
}
