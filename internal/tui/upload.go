package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/domain"
)

type uploadModel struct {
	client     *client.Client
	userID     int64
	path       string
	focused    bool
	submitting bool
	report     *domain.ExerciseReport
	err        error
}

type reportParsedMsg struct {
	userID int64
	report *domain.ExerciseReport
	err    error
}

func newUploadModel(c *client.Client, userID int64) uploadModel {
	return uploadModel{client: c, userID: userID, focused: true}
}

func (m uploadModel) Init() tea.Cmd {
	return nil
}

func (m uploadModel) Update(msg tea.Msg) (uploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportParsedMsg:
		if msg.userID != m.userID {
			return m, nil
		}
		m.submitting = false
		m.err = msg.err
		if msg.err != nil {
			return m, expiredCmd(msg.err)
		}
		m.report = msg.report
		m.path = ""
		m.focused = false
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if !m.focused {
			if msg.String() == "enter" || msg.String() == "i" {
				m.focused = true
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.focused = false
		case "enter":
			return m.submit()
		default:
			m.path = editRune(m.path, msg.String())
		}
	}
	return m, nil
}

func (m uploadModel) submit() (uploadModel, tea.Cmd) {
	path := expandHome(strings.TrimSpace(m.path))
	if path == "" {
		m.err = fmt.Errorf("enter the path of a workout screenshot")
		return m, nil
	}
	m.submitting = true
	m.err = nil
	c, uid := m.client, m.userID
	return m, func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return reportParsedMsg{userID: uid, err: err}
		}
		defer f.Close() //nolint:errcheck
		report, err := c.ParseExerciseReport(context.Background(), filepath.Base(path), f, uid)
		return reportParsedMsg{userID: uid, report: report, err: err}
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func (m uploadModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("upload a workout screenshot (jpg/png, max 10MB)") + "\n\n")
	b.WriteString(" " + renderField("file", m.path, "~/Pictures/run.png", m.focused, false) + "\n\n")

	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("recognizing..."))
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("error: "+client.Message(m.err)))
	case m.report != nil:
		r := m.report
		fmt.Fprintf(&b, " %s  %s\n\n", doneStyle.Render("recognized"), ScoreStyle(r.Score).Render(fmt.Sprintf("score %d", r.Score)))
		rows := [][2]string{
			{"type", r.ExerciseType},
			{"duration", fmt.Sprintf("%d min", r.DurationMin)},
			{"calories", fmt.Sprintf("%d kcal", r.Calories)},
			{"steps", optInt(r.Steps)},
			{"heart rate", optInt(r.AvgHeartRate) + " avg / " + optInt(r.MaxHeartRate) + " max"},
			{"device", r.SourceDevice},
			{"date", r.Date},
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(fmt.Sprintf("%-11s", row[0])), normalStyle.Render(row[1]))
		}
	}
	return b.String()
}
