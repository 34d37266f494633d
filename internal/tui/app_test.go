package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/familyfit/familyfit/internal/router"
	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/domain"
	"github.com/familyfit/familyfit/pkg/session"
)

// The unroutable address keeps page loads from reaching a real server.
const testAPIURL = "http://127.0.0.1:0"

func newTestApp(t *testing.T, token string, enforceAuth bool) (App, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(token)
	if token != "" {
		if err := store.SetProfile(&domain.User{ID: 7, Username: "mum", Name: "Mum", TotalScore: 30}); err != nil {
			t.Fatalf("SetProfile: %v", err)
		}
	}
	c := client.New(testAPIURL, store)
	g := router.NewGuard(router.DefaultTable(), store, enforceAuth)
	a := NewApp(c, g, "http://localhost:5173", "test")
	a.width = 80
	a.height = 30
	return a, store
}

func press(t *testing.T, a App, key string) (App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func send(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func TestAppAnonymousStartsOnLogin(t *testing.T) {
	a, _ := newTestApp(t, "", true)
	if a.route.Path != router.LoginPath {
		t.Fatalf("route = %q, want %q", a.route.Path, router.LoginPath)
	}
	if a.title != "登录" {
		t.Errorf("title = %q, want 登录", a.title)
	}
	if len(a.history) != 1 || a.history[0] != router.LoginPath {
		t.Errorf("history = %v, want [/login] (redirect replaces)", a.history)
	}
}

func TestAppAuthenticatedStartsOnTasks(t *testing.T) {
	a, _ := newTestApp(t, "tok", true)
	if a.route.Page != router.PageTasks {
		t.Fatalf("page = %v, want tasks", a.route.Page)
	}
	if a.title != "今日任务" {
		t.Errorf("title = %q, want 今日任务", a.title)
	}
	if a.user == nil || a.user.ID != 7 {
		t.Errorf("user = %+v, want cached profile", a.user)
	}
	if a.tasks.userID != 7 {
		t.Errorf("tasks userID = %d, want 7", a.tasks.userID)
	}
}

func TestAppOpenPostureSkipsLogin(t *testing.T) {
	a, _ := newTestApp(t, "", false)
	if a.route.Path != router.HomePath {
		t.Errorf("route = %q, want %q with auth not enforced", a.route.Path, router.HomePath)
	}
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key  string
		want router.Page
	}{
		{"1", router.PageTasks},
		{"2", router.PageUpload},
		{"3", router.PageDiet},
		{"4", router.PageTrends},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			a, _ := newTestApp(t, "tok", true)
			a, _ = press(t, a, tc.key)
			if a.route.Page != tc.want {
				t.Errorf("after key %q: page = %v, want %v", tc.key, a.route.Page, tc.want)
			}
		})
	}
}

func TestAppUnknownTabIgnored(t *testing.T) {
	a, _ := newTestApp(t, "tok", true)
	a, _ = press(t, a, "9")
	if a.route.Page != router.PageTasks {
		t.Errorf("page = %v, want tasks", a.route.Page)
	}
}

func TestAppBackReturnsToPreviousPage(t *testing.T) {
	a, _ := newTestApp(t, "tok", true)
	a, _ = press(t, a, "4")
	a, _ = press(t, a, "3")
	a, _ = press(t, a, "b")
	if a.route.Page != router.PageTrends {
		t.Fatalf("after back: page = %v, want trends", a.route.Page)
	}
	a, _ = press(t, a, "b")
	if a.route.Page != router.PageTasks {
		t.Errorf("after second back: page = %v, want tasks", a.route.Page)
	}
	if len(a.history) != 1 {
		t.Errorf("history = %v, want one entry", a.history)
	}
}

func TestAppSessionExpiredRedirectsToLogin(t *testing.T) {
	a, store := newTestApp(t, "tok", true)
	// The client clears the store before the message arrives.
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	a, _ = send(a, sessionExpiredMsg{reason: "Not authenticated"})
	if a.route.Path != router.LoginPath {
		t.Fatalf("route = %q, want /login", a.route.Path)
	}
	if a.user != nil {
		t.Error("user not cleared on expiry")
	}
	if !strings.Contains(a.notice, "session expired") {
		t.Errorf("notice = %q", a.notice)
	}
}

func TestAppPageLoadAuthFailureRedirects(t *testing.T) {
	a, store := newTestApp(t, "tok", true)
	store.Clear() //nolint:errcheck

	authErr := &client.Error{StatusCode: 401, Message: "Not authenticated", Err: client.ErrAuthExpired}
	a, cmd := send(a, tasksLoadedMsg{userID: 7, err: authErr})
	if cmd == nil {
		t.Fatal("expected redirect command for auth failure")
	}
	msg, ok := cmd().(sessionExpiredMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want sessionExpiredMsg", cmd())
	}
	a, _ = send(a, msg)
	if a.route.Page != router.PageLogin {
		t.Errorf("page = %v, want login", a.route.Page)
	}
}

func TestAppPageLoadFailureStaysInline(t *testing.T) {
	a, _ := newTestApp(t, "tok", true)
	a, cmd := send(a, tasksLoadedMsg{userID: 7, err: &client.Error{StatusCode: 500, Message: "boom"}})
	if cmd != nil {
		t.Error("non-auth failure should not produce a command")
	}
	if a.route.Page != router.PageTasks {
		t.Errorf("page = %v, want tasks", a.route.Page)
	}
	if !strings.Contains(a.View(), "boom") {
		t.Error("view does not show the failure message")
	}
}

func TestAppLoggedInGoesHome(t *testing.T) {
	a, store := newTestApp(t, "", true)
	store.SetToken("fresh") //nolint:errcheck
	a, _ = send(a, loggedInMsg{user: &domain.User{ID: 2, Name: "Dad"}})
	if a.route.Path != router.HomePath {
		t.Fatalf("route = %q, want /", a.route.Path)
	}
	if a.tasks.userID != 2 {
		t.Errorf("tasks userID = %d, want 2", a.tasks.userID)
	}
}

func TestAppLoginPageCapturesQ(t *testing.T) {
	a, _ := newTestApp(t, "", true)
	a, cmd := press(t, a, "q")
	if cmd != nil {
		t.Error("q on the login form should type, not quit")
	}
	if a.login.fields[fieldUsername] != "q" {
		t.Errorf("username = %q, want q", a.login.fields[fieldUsername])
	}
}

func TestAppLoggedOutGoesToLogin(t *testing.T) {
	a, store := newTestApp(t, "tok", true)
	store.Clear() //nolint:errcheck
	a, _ = send(a, loggedOutMsg{})
	if a.route.Page != router.PageLogin {
		t.Errorf("page = %v, want login", a.route.Page)
	}
	if a.notice != "logged out" {
		t.Errorf("notice = %q", a.notice)
	}
}

func TestAppViewShowsTabsOnlyWhenLoggedIn(t *testing.T) {
	a, _ := newTestApp(t, "tok", true)
	if v := a.View(); !strings.Contains(v, "健康趋势") || !strings.Contains(v, "Mum") {
		t.Error("home view missing tab titles or user name")
	}
	anon, _ := newTestApp(t, "", true)
	if strings.Contains(anon.View(), "健康趋势") {
		t.Error("login view should not show tabs")
	}
}

func TestAppHoldsPageLoadUntilProfileKnown(t *testing.T) {
	store := session.NewMemoryStore("tok") // token without a cached profile
	c := client.New(testAPIURL, store)
	a := NewApp(c, router.NewGuard(router.DefaultTable(), store, true), "http://localhost:5173", "test")
	if !a.profilePending {
		t.Fatal("expected the profile to be pending")
	}
	if a.route.Page != router.PageTasks {
		t.Fatalf("page = %v, want tasks", a.route.Page)
	}

	// Page keys are held; r retries the profile.
	if _, cmd := press(t, a, "j"); cmd != nil {
		t.Error("page key produced a command while the profile is pending")
	}
	if _, cmd := press(t, a, "r"); cmd == nil {
		t.Error("r should retry loading the profile")
	}

	a, cmd := send(a, profileLoadedMsg{user: &domain.User{ID: 7, Name: "Mum"}})
	if a.profilePending {
		t.Error("profile still pending after it loaded")
	}
	if cmd == nil {
		t.Fatal("expected the page load once the profile is known")
	}
	if a.tasks.userID != 7 {
		t.Errorf("tasks userID = %d, want 7", a.tasks.userID)
	}

	// A response requested before the user was known is dropped.
	a, _ = send(a, tasksLoadedMsg{userID: 0, data: &domain.TodayTasks{Date: "stale"}})
	if a.tasks.data != nil {
		t.Fatalf("stale response applied: date %q", a.tasks.data.Date)
	}
	a, _ = send(a, tasksLoadedMsg{userID: 7, data: &domain.TodayTasks{Date: "2024-03-09"}})
	if a.tasks.data == nil || a.tasks.data.Date != "2024-03-09" {
		t.Errorf("current response not applied: %+v", a.tasks.data)
	}
}

func TestAppProfileFailureKeepsHold(t *testing.T) {
	store := session.NewMemoryStore("tok")
	c := client.New(testAPIURL, store)
	a := NewApp(c, router.NewGuard(router.DefaultTable(), store, true), "http://localhost:5173", "test")

	a, cmd := send(a, profileLoadedMsg{err: &client.Error{Message: "connection refused"}})
	if cmd != nil {
		t.Error("non-auth profile failure should not load the page")
	}
	if !a.profilePending {
		t.Error("hold released after a failed profile load")
	}
	if !strings.Contains(a.notice, "r to retry") {
		t.Errorf("notice = %q", a.notice)
	}
}

func TestExpiredCmd(t *testing.T) {
	if expiredCmd(nil) != nil {
		t.Error("expiredCmd(nil) should be nil")
	}
	if expiredCmd(&client.Error{StatusCode: 500, Message: "boom"}) != nil {
		t.Error("expiredCmd(failure) should be nil")
	}
	cmd := expiredCmd(&client.Error{StatusCode: 401, Message: "Not authenticated", Err: client.ErrAuthExpired})
	if cmd == nil {
		t.Fatal("expiredCmd(auth expired) should redirect")
	}
	if msg, ok := cmd().(sessionExpiredMsg); !ok || msg.reason != "Not authenticated" {
		t.Errorf("cmd() = %#v", cmd())
	}
}
