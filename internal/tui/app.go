package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/familyfit/familyfit/internal/browser"
	"github.com/familyfit/familyfit/internal/router"
	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/domain"
)

// sessionExpiredMsg is emitted when an API call ended the session.
type sessionExpiredMsg struct {
	reason string
}

// loggedInMsg carries the profile of a freshly created session.
type loggedInMsg struct {
	user *domain.User
}

type loggedOutMsg struct {
	err error
}

// profileLoadedMsg carries the result of client.Me at startup.
type profileLoadedMsg struct {
	user *domain.User
	err  error
}

type pageOpenedMsg struct {
	url string
	err error
}

// expiredCmd turns an auth-expired failure into a redirect to the login page.
// Returns nil for any other error.
func expiredCmd(err error) tea.Cmd {
	if client.Classify(err) != client.AuthExpired {
		return nil
	}
	reason := client.Message(err)
	return func() tea.Msg { return sessionExpiredMsg{reason: reason} }
}

// App is the root Bubbletea model. Every page switch goes through the
// router guard.
type App struct {
	client  *client.Client
	guard   *router.Guard
	webURL  string
	version string

	route   router.Route
	title   string
	history []string
	pending tea.Cmd // first page's Init, returned from App.Init

	user   *domain.User
	notice string
	// profilePending holds page loads until client.Me returns the user ID.
	profilePending bool

	login  loginModel
	tasks  tasksModel
	upload uploadModel
	diet   dietModel
	trends trendsModel

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the TUI and performs the initial navigation to the home page.
func NewApp(c *client.Client, g *router.Guard, webURL, version string) App {
	a := App{
		client:  c,
		guard:   g,
		webURL:  webURL,
		version: version,
	}
	if p, err := c.Session().Profile(); err == nil {
		a.user = p
	}
	a.profilePending = a.user == nil && g.Authenticated()
	a, a.pending = a.navigate(router.HomePath)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.pending, a.loadProfile())
}

func (a App) loadProfile() tea.Cmd {
	if !a.profilePending {
		return nil
	}
	c := a.client
	return func() tea.Msg {
		u, err := c.Me(context.Background())
		return profileLoadedMsg{user: u, err: err}
	}
}

func (a App) userID() int64 {
	if a.user == nil {
		return 0
	}
	return a.user.ID
}

// navigate resolves path through the guard, records history and enters the
// resulting page. Redirects replace the current history entry.
func (a App) navigate(path string) (App, tea.Cmd) {
	d, err := a.guard.Resolve(path)
	if err != nil {
		a.notice = err.Error()
		return a, nil
	}
	a.history = append([]string(nil), a.history...)
	switch {
	case d.Replace && len(a.history) > 0:
		a.history[len(a.history)-1] = d.Route.Path
	case len(a.history) > 0 && a.history[len(a.history)-1] == d.Route.Path:
	default:
		a.history = append(a.history, d.Route.Path)
	}
	a.route = d.Route
	a.title = router.Title(d.Route)
	cmd := a.enter()
	return a, tea.Batch(tea.SetWindowTitle(a.title), cmd)
}

// back returns to the previous history entry, re-checked by the guard.
func (a App) back() (App, tea.Cmd) {
	if len(a.history) < 2 {
		return a, nil
	}
	prev := a.history[len(a.history)-2]
	a.history = append([]string(nil), a.history[:len(a.history)-2]...)
	return a.navigate(prev)
}

// enter resets the current page's model and returns its Init. Pages other
// than login are not loaded while the profile is pending.
func (a *App) enter() tea.Cmd {
	uid := a.userID()
	hold := a.profilePending && a.route.Page != router.PageLogin
	var cmd tea.Cmd
	switch a.route.Page {
	case router.PageLogin:
		a.login = newLoginModel(a.client)
		cmd = a.login.Init()
	case router.PageTasks:
		a.tasks = newTasksModel(a.client, uid)
		cmd = a.tasks.Init()
	case router.PageUpload:
		a.upload = newUploadModel(a.client, uid)
		cmd = a.upload.Init()
	case router.PageDiet:
		a.diet = newDietModel(a.client, uid)
		cmd = a.diet.Init()
	case router.PageTrends:
		a.trends = newTrendsModel(a.client, uid)
		cmd = a.trends.Init()
	}
	if hold {
		return nil
	}
	return cmd
}

// tabRoutes returns the navigable pages in tab order (login excluded).
func (a App) tabRoutes() []router.Route {
	var out []router.Route
	for _, r := range a.guard.Table().Routes() {
		if r.Path != router.LoginPath {
			out = append(out, r)
		}
	}
	return out
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionExpiredMsg:
		a.user = nil
		a.profilePending = false
		a.notice = "session expired, please log in again"
		if msg.reason != "" {
			a.notice += " (" + msg.reason + ")"
		}
		return a.navigate(router.LoginPath)

	case loggedInMsg:
		a.user = msg.user
		a.profilePending = false
		a.notice = ""
		return a.navigate(router.HomePath)

	case loggedOutMsg:
		a.user = nil
		a.profilePending = false
		a.notice = "logged out"
		if msg.err != nil && !client.IsAuthExpired(msg.err) {
			a.notice = "logged out locally: " + client.Message(msg.err)
		}
		return a.navigate(router.LoginPath)

	case profileLoadedMsg:
		if msg.err != nil {
			if cmd := expiredCmd(msg.err); cmd != nil {
				return a, cmd
			}
			a.notice = "could not load profile: " + client.Message(msg.err) + " (r to retry)"
			return a, nil
		}
		a.user = msg.user
		a.profilePending = false
		a.notice = ""
		// Re-enter so the page picks up the user ID.
		cmd := a.enter()
		return a, cmd

	case pageOpenedMsg:
		if msg.err != nil {
			a.notice = "could not open browser, visit " + msg.url
		} else {
			a.notice = "opened " + msg.url
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.isEditing() {
			key := msg.String()
			switch key {
			case "q":
				return a, tea.Quit
			case "b":
				return a.back()
			case "o":
				return a, a.openInBrowser()
			case "x":
				if a.guard.Authenticated() {
					return a, a.logout()
				}
			case "1", "2", "3", "4", "5", "6", "7", "8", "9":
				tabs := a.tabRoutes()
				if i := int(key[0] - '1'); i < len(tabs) {
					if tabs[i].Path == a.route.Path {
						return a, nil
					}
					a.notice = ""
					return a.navigate(tabs[i].Path)
				}
				return a, nil
			}
		}
	}

	if key, ok := msg.(tea.KeyMsg); ok && a.profilePending && a.route.Page != router.PageLogin {
		if key.String() == "r" {
			a.notice = ""
			return a, a.loadProfile()
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.route.Page {
	case router.PageLogin:
		a.login, cmd = a.login.Update(msg)
	case router.PageTasks:
		a.tasks, cmd = a.tasks.Update(msg)
	case router.PageUpload:
		a.upload, cmd = a.upload.Update(msg)
	case router.PageDiet:
		a.diet, cmd = a.diet.Update(msg)
	case router.PageTrends:
		a.trends, cmd = a.trends.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	if a.profilePending && a.route.Page != router.PageLogin {
		return false
	}
	switch a.route.Page {
	case router.PageLogin:
		return true
	case router.PageUpload:
		return a.upload.focused
	case router.PageDiet:
		return a.diet.focused
	}
	return false
}

func (a App) openInBrowser() tea.Cmd {
	webURL, path := a.webURL, a.route.Path
	return func() tea.Msg {
		target, err := browser.OpenPage(webURL, path)
		if target == "" {
			target = webURL + path
		}
		return pageOpenedMsg{url: target, err: err}
	}
}

func (a App) logout() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		return loggedOutMsg{err: c.Logout(context.Background())}
	}
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	logoPad := (a.width - lipgloss.Width(logo)) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	// Who line: name, total score, page title
	who := metaStyle.Render(a.title)
	if a.user != nil {
		who = selectedStyle.Render(a.user.Name) + metaStyle.Render(fmt.Sprintf(" . %d pts . ", a.user.TotalScore)) + who
	}
	whoPad := (a.width - lipgloss.Width(who)) / 2
	if whoPad < 0 {
		whoPad = 0
	}
	header += "\n" + strings.Repeat(" ", whoPad) + who

	var tabBar strings.Builder
	if a.route.Page != router.PageLogin {
		tabs := a.tabRoutes()
		colWidth := 0
		if len(tabs) > 0 {
			colWidth = a.width / len(tabs)
		}
		for i, t := range tabs {
			var label string
			key := fmt.Sprintf("%d", i+1)
			if t.Path == a.route.Path {
				label = accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(router.Title(t))
			} else {
				label = metaStyle.Render(key) + " " + dimStyle.Render(router.Title(t))
			}
			labelWidth := lipgloss.Width(label)
			leftPad := (colWidth - labelWidth) / 2
			if leftPad < 0 {
				leftPad = 0
			}
			rightPad := colWidth - labelWidth - leftPad
			if rightPad < 0 {
				rightPad = 0
			}
			tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
		}
	}

	var body, help string
	global := [][2]string{{"1-4", "tabs"}, {"b", "back"}, {"o", "open web"}, {"x", "logout"}, {"q", "quit"}}
	switch a.route.Page {
	case router.PageLogin:
		body = a.login.View()
		help = helpLine([2]string{"tab", "next"}, [2]string{"enter", "submit"}, [2]string{"ctrl+r", "login/register"}, [2]string{"ctrl+c", "quit"})
	case router.PageTasks:
		body = a.tasks.View()
		help = helpLine(append([][2]string{{"j/k", "nav"}, {"enter", "done"}, {"r", "refresh"}}, global...)...)
	case router.PageUpload:
		body = a.upload.View()
		if a.upload.focused {
			help = helpLine([2]string{"enter", "upload"}, [2]string{"esc", "nav"})
		} else {
			help = helpLine(append([][2]string{{"enter", "type path"}}, global...)...)
		}
	case router.PageDiet:
		body = a.diet.View()
		if a.diet.focused {
			help = helpLine([2]string{"enter", "save"}, [2]string{"esc", "nav"})
		} else {
			help = helpLine(append([][2]string{{"h/l", "meal"}, {"enter", "add food"}, {"r", "refresh"}}, global...)...)
		}
	case router.PageTrends:
		body = a.trends.View()
		help = helpLine(append([][2]string{{"t", "7/30 days"}, {"c", "copy"}, {"r", "refresh"}}, global...)...)
	}

	noticeLine := ""
	if a.notice != "" {
		noticeLine = " " + noticeStyle.Render(a.notice)
	}

	// Chrome budget: header(2) + tabs(1) + notice(1) + help(1) = 5 lines + body
	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, noticeLine, help)
}
