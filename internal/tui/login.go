package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/domain"
)

type loginField int

const (
	fieldUsername loginField = iota
	fieldPassword
	fieldName // register only
	numLoginFields
)

type loginModel struct {
	client     *client.Client
	register   bool
	fields     [numLoginFields]string
	focus      loginField
	submitting bool
	statusMsg  string
}

type loginResultMsg struct {
	user *domain.User
	err  error
}

func newLoginModel(c *client.Client) loginModel {
	return loginModel{client: c}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) numFields() loginField {
	if m.register {
		return numLoginFields
	}
	return fieldName
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = client.Message(msg.err)
			m.fields[fieldPassword] = ""
			m.focus = fieldPassword
			return m, nil
		}
		user := msg.user
		return m, func() tea.Msg { return loggedInMsg{user: user} }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	m.statusMsg = ""
	n := m.numFields()

	switch msg.String() {
	case "ctrl+r":
		m.register = !m.register
		if m.focus >= m.numFields() {
			m.focus = 0
		}
	case "tab", "down":
		m.focus = (m.focus + 1) % n
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
	case "enter":
		if m.focus == n-1 {
			return m.submit()
		}
		m.focus++
	case "esc":
		m.fields = [numLoginFields]string{}
		m.focus = fieldUsername
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := strings.TrimSpace(m.fields[fieldUsername])
	password := m.fields[fieldPassword]
	if username == "" || password == "" {
		m.statusMsg = "username and password are required"
		return m, nil
	}

	m.submitting = true
	c := m.client
	if m.register {
		req := client.RegisterRequest{
			Username: username,
			Password: password,
			Name:     strings.TrimSpace(m.fields[fieldName]),
		}
		if req.Name == "" {
			req.Name = username
		}
		return m, func() tea.Msg {
			u, err := c.Register(context.Background(), req)
			return loginResultMsg{user: u, err: err}
		}
	}
	return m, func() tea.Msg {
		u, err := c.Login(context.Background(), username, password)
		return loginResultMsg{user: u, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	mode := "log in"
	if m.register {
		mode = "create account"
	}
	b.WriteString("\n " + sectionHeaderStyle.Render(mode) + "\n\n")

	b.WriteString(" " + renderField("username", m.fields[fieldUsername], "family member name", m.focus == fieldUsername, false) + "\n")
	b.WriteString(" " + renderField("password", m.fields[fieldPassword], "", m.focus == fieldPassword, true) + "\n")
	if m.register {
		b.WriteString(" " + renderField("display name", m.fields[fieldName], "defaults to username", m.focus == fieldName, false) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("signing in..."))
	case m.statusMsg != "":
		b.WriteString(" " + errorStyle.Render(m.statusMsg))
	}
	return b.String()
}
