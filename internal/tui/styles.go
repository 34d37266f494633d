package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the FAMILYFIT logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "FAMILYFIT" as a slow wave of warm light.
// Deep coral (#5a2318) -> bright peach (#fb923c).
func renderShimmerLogo(frame int) string {
	const text = "FAMILYFIT"
	n := len(text)

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(90 + b*(251-90))
		g := clampByte(35 + b*(146-35))
		bl := clampByte(24 + b*(60-24))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))

		if i < n-1 {
			out.WriteString(" ")
		}
	}

	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fb923c"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Italic(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fb923c")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	barFullColor  = lipgloss.Color("#fb923c")
	barEmptyColor = lipgloss.Color("#2a2a36")

	// Task type colors
	taskTypeColors = map[string]lipgloss.Color{
		"water":    lipgloss.Color("#60a0e0"),
		"stretch":  lipgloss.Color("#b080d0"),
		"walk":     lipgloss.Color("#4ade80"),
		"diet":     lipgloss.Color("#d4a844"),
		"no_sugar": lipgloss.Color("#e06060"),
		"sleep":    lipgloss.Color("#8890a0"),
		"exercise": lipgloss.Color("#f0944a"),
	}

	mealTypeColors = map[string]lipgloss.Color{
		"breakfast": lipgloss.Color("#d4a844"),
		"lunch":     lipgloss.Color("#4ade80"),
		"dinner":    lipgloss.Color("#60a0e0"),
		"snack":     lipgloss.Color("#c084e0"),
	}
)

// TaskTypeStyle returns a style colored for the given task type.
func TaskTypeStyle(taskType string) lipgloss.Style {
	if c, ok := taskTypeColors[taskType]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878"))
}

// MealTypeStyle returns a bold style colored for the given meal type.
func MealTypeStyle(mealType string) lipgloss.Style {
	if c, ok := mealTypeColors[mealType]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// ScoreStyle colors a 0-100 health score.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return doneStyle
	case score >= 60:
		return accentStyle
	case score > 0:
		return errorStyle
	}
	return metaStyle
}

// renderBar draws a horizontal bar of width cells filled to frac.
func renderBar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	full := int(math.Round(frac * float64(width)))
	return lipgloss.NewStyle().Foreground(barFullColor).Render(strings.Repeat("█", full)) +
		lipgloss.NewStyle().Foreground(barEmptyColor).Render(strings.Repeat("░", width-full))
}

func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

func helpLine(entries ...[2]string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, helpEntry(e[0], e[1]))
	}
	return " " + strings.Join(parts, "  ")
}
