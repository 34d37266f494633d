package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/domain"
)

// Trend windows the server supports.
var trendWindows = []int{domain.DefaultTrendDays, 30}

type trendsModel struct {
	client    *client.Client
	userID    int64
	days      int
	data      *domain.Trends
	loading   bool
	err       error
	statusMsg string
}

type trendsLoadedMsg struct {
	userID int64
	days   int
	data   *domain.Trends
	err    error
}

type trendsCopiedMsg struct {
	err error
}

func newTrendsModel(c *client.Client, userID int64) trendsModel {
	return trendsModel{client: c, userID: userID, days: domain.DefaultTrendDays, loading: true}
}

func (m trendsModel) Init() tea.Cmd {
	return m.load()
}

func (m trendsModel) load() tea.Cmd {
	c, uid, days := m.client, m.userID, m.days
	return func() tea.Msg {
		data, err := c.Trends(context.Background(), uid, days)
		return trendsLoadedMsg{userID: uid, days: days, data: data, err: err}
	}
}

func (m trendsModel) Update(msg tea.Msg) (trendsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case trendsLoadedMsg:
		if msg.days != m.days || msg.userID != m.userID {
			return m, nil // stale response for a previous window or user
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, expiredCmd(msg.err)
		}
		m.data = msg.data
		return m, nil

	case trendsCopiedMsg:
		if msg.err != nil {
			m.statusMsg = "clipboard unavailable: " + msg.err.Error()
		} else {
			m.statusMsg = "summary copied"
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "t":
			for i, w := range trendWindows {
				if w == m.days {
					m.days = trendWindows[(i+1)%len(trendWindows)]
					break
				}
			}
			m.loading = true
			m.statusMsg = ""
			return m, m.load()
		case "r":
			m.loading = true
			return m, m.load()
		case "c":
			if m.data == nil {
				return m, nil
			}
			text := m.summary()
			return m, func() tea.Msg {
				return trendsCopiedMsg{err: clipboard.WriteAll(text)}
			}
		}
	}
	return m, nil
}

// summary renders the loaded series as plain text for sharing.
func (m trendsModel) summary() string {
	if m.data == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "FamilyFit trends, last %d days (avg score %d)\n", m.days, m.data.AverageScore())
	for i, d := range m.data.DailyScores {
		fmt.Fprintf(&b, "%s  score %3d", d.Date, d.Score)
		if i < len(m.data.Exercise.Calories) {
			fmt.Fprintf(&b, "  exercise %4d kcal", m.data.Exercise.Calories[i])
		}
		if i < len(m.data.Diet.DailyCalories) {
			fmt.Fprintf(&b, "  diet %4d kcal", m.data.Diet.DailyCalories[i])
		}
		if i < len(m.data.TaskCompletionRate) {
			fmt.Fprintf(&b, "  tasks %3d%%", m.data.TaskCompletionRate[i].Rate)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m trendsModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n %s\n\n", sectionHeaderStyle.Render(fmt.Sprintf("last %d days", m.days)))

	if m.loading && m.data == nil {
		b.WriteString(" " + dimStyle.Render("loading trends..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render("error: "+client.Message(m.err)))
		return b.String()
	}
	if m.data == nil || len(m.data.DailyScores) == 0 {
		b.WriteString(" " + dimStyle.Render("no data yet"))
		return b.String()
	}

	d := m.data
	for i, s := range d.DailyScores {
		date := s.Date
		if len(date) == len("2006-01-02") {
			date = date[5:] // MM-DD
		}
		rate := ""
		if i < len(d.TaskCompletionRate) {
			rate = metaStyle.Render(fmt.Sprintf("tasks %3d%%", d.TaskCompletionRate[i].Rate))
		}
		fmt.Fprintf(&b, " %s %s %s  %s\n",
			metaStyle.Render(date),
			renderBar(float64(s.Score)/100, 30),
			ScoreStyle(s.Score).Render(fmt.Sprintf("%3d", s.Score)),
			rate)
	}
	fmt.Fprintf(&b, "\n %s %s\n", metaStyle.Render("average"), ScoreStyle(d.AverageScore()).Render(fmt.Sprintf("%d", d.AverageScore())))

	if m.statusMsg != "" {
		b.WriteString("\n " + doneStyle.Render(m.statusMsg))
	}
	return b.String()
}
