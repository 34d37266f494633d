package domain

import "testing"

func TestValidMealType(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		valid bool
	}{
		{"valid breakfast", "breakfast", true},
		{"valid lunch", "lunch", true},
		{"valid dinner", "dinner", true},
		{"valid snack", "snack", true},
		{"invalid empty", "", false},
		{"invalid unknown", "brunch", false},
		{"invalid capitalized", "Lunch", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidMealType(tt.typ); got != tt.valid {
				t.Errorf("ValidMealType(%q) = %v, want %v", tt.typ, got, tt.valid)
			}
		})
	}
}

func TestTodayTasksProgress(t *testing.T) {
	tests := []struct {
		name string
		in   TodayTasks
		want float64
	}{
		{"no tasks", TodayTasks{}, 0},
		{"half", TodayTasks{TotalTasks: 4, CompletedTasks: 2}, 0.5},
		{"all", TodayTasks{TotalTasks: 3, CompletedTasks: 3}, 1},
		{"clamped", TodayTasks{TotalTasks: 2, CompletedTasks: 5}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrendsAverageScore(t *testing.T) {
	if got := (Trends{}).AverageScore(); got != 0 {
		t.Errorf("empty AverageScore() = %d, want 0", got)
	}
	tr := Trends{DailyScores: []DailyScore{{Score: 60}, {Score: 80}, {Score: 70}}}
	if got := tr.AverageScore(); got != 70 {
		t.Errorf("AverageScore() = %d, want 70", got)
	}
}
