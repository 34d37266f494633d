package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/domain"
)

type tasksModel struct {
	client    *client.Client
	userID    int64
	data      *domain.TodayTasks
	cursor    int
	loading   bool
	marking   bool
	err       error
	statusMsg string
}

// Result messages carry the user they were requested for so a response
// for a previous user is dropped.
type tasksLoadedMsg struct {
	userID int64
	data   *domain.TodayTasks
	err    error
}

type taskDoneMsg struct {
	userID int64
	result *domain.TaskDoneResult
	err    error
}

func newTasksModel(c *client.Client, userID int64) tasksModel {
	return tasksModel{client: c, userID: userID, loading: true}
}

func (m tasksModel) Init() tea.Cmd {
	return m.load()
}

func (m tasksModel) load() tea.Cmd {
	c, uid := m.client, m.userID
	return func() tea.Msg {
		data, err := c.TodayTasks(context.Background(), uid)
		return tasksLoadedMsg{userID: uid, data: data, err: err}
	}
}

func (m tasksModel) Update(msg tea.Msg) (tasksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.userID != m.userID {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, expiredCmd(msg.err)
		}
		m.data = msg.data
		if m.cursor >= len(m.data.Tasks) {
			m.cursor = 0
		}
		return m, nil

	case taskDoneMsg:
		if msg.userID != m.userID {
			return m, nil
		}
		m.marking = false
		if msg.err != nil {
			m.statusMsg = "could not complete task: " + client.Message(msg.err)
			return m, expiredCmd(msg.err)
		}
		m.statusMsg = fmt.Sprintf("+%d points . %d today", msg.result.RewardPoints, msg.result.TotalPointsToday)
		return m, m.load()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m tasksModel) updateKeys(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	n := 0
	if m.data != nil {
		n = len(m.data.Tasks)
	}
	switch msg.String() {
	case "j", "down":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.loading = true
		m.statusMsg = ""
		return m, m.load()
	case "enter", " ":
		if n == 0 || m.marking {
			return m, nil
		}
		m.marking = true
		c, uid, id := m.client, m.userID, m.data.Tasks[m.cursor].ID
		return m, func() tea.Msg {
			res, err := c.MarkTaskDone(context.Background(), id, uid)
			return taskDoneMsg{userID: uid, result: res, err: err}
		}
	}
	return m, nil
}

func (m tasksModel) View() string {
	if m.loading && m.data == nil {
		return "\n " + dimStyle.Render("loading today's tasks...")
	}
	if m.err != nil && m.data == nil {
		return "\n " + errorStyle.Render("error: "+client.Message(m.err))
	}

	var b strings.Builder
	d := m.data
	fmt.Fprintf(&b, "\n %s  %s %s\n\n",
		sectionHeaderStyle.Render(d.Date),
		renderBar(d.Progress(), 20),
		metaStyle.Render(fmt.Sprintf("%d/%d done . %d pts", d.CompletedTasks, d.TotalTasks, d.TotalPoints)))

	if len(d.Tasks) == 0 {
		b.WriteString(" " + dimStyle.Render("no tasks scheduled today") + "\n")
	}
	for i, t := range d.Tasks {
		check := metaStyle.Render("[ ]")
		name := normalStyle.Render(t.Name)
		if t.Done {
			check = doneStyle.Render("[x]")
			name = dimStyle.Render(t.Name)
		}
		line := fmt.Sprintf(" %s %s %s %s", check, name,
			TaskTypeStyle(t.Type).Render(t.Type),
			metaStyle.Render(fmt.Sprintf("+%d", t.RewardPoints)))
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.marking:
		b.WriteString(" " + dimStyle.Render("saving..."))
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("error: "+client.Message(m.err)))
	case m.statusMsg != "":
		b.WriteString(" " + doneStyle.Render(m.statusMsg))
	}
	return b.String()
}
