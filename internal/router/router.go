// Package router declares the navigable pages of the client and the guard
// that decides, before a page loads, whether the navigation may proceed.
package router

import (
	"errors"
	"fmt"
)

// AppName is the title shown when a route declares none.
const AppName = "FamilyFit 健康助手"

// Well-known paths.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Page identifies the view that renders a route.
type Page int

const (
	PageLogin Page = iota
	PageTasks
	PageUpload
	PageDiet
	PageTrends
)

func (p Page) String() string {
	switch p {
	case PageLogin:
		return "login"
	case PageTasks:
		return "tasks"
	case PageUpload:
		return "upload"
	case PageDiet:
		return "diet"
	case PageTrends:
		return "trends"
	}
	return fmt.Sprintf("page(%d)", int(p))
}

// Route is a static route descriptor.
type Route struct {
	Path         string
	Name         string
	Page         Page
	Title        string
	RequiresAuth bool
}

// ErrNoRoute is returned for paths not in the table.
var ErrNoRoute = errors.New("no route")

// Table is an immutable set of routes keyed by path.
type Table struct {
	routes []Route
	byPath map[string]int
}

// NewTable builds a route table. Paths must be non-empty and unique.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
	}
	for _, r := range routes {
		if r.Path == "" {
			return nil, fmt.Errorf("router.NewTable: route %q has empty path", r.Name)
		}
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("router.NewTable: duplicate path %q", r.Path)
		}
		t.byPath[r.Path] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// DefaultRoutes returns the client's pages.
func DefaultRoutes() []Route {
	return []Route{
		{Path: LoginPath, Name: "Login", Page: PageLogin, Title: "登录", RequiresAuth: false},
		{Path: HomePath, Name: "TaskToday", Page: PageTasks, Title: "今日任务", RequiresAuth: true},
		{Path: "/upload", Name: "ExerciseUpload", Page: PageUpload, Title: "运动上传", RequiresAuth: true},
		{Path: "/diet", Name: "DietRecord", Page: PageDiet, Title: "饮食记录", RequiresAuth: true},
		{Path: "/trends", Name: "HealthTrends", Page: PageTrends, Title: "健康趋势", RequiresAuth: true},
	}
}

// DefaultTable returns a table of DefaultRoutes.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRoutes()...)
	if err != nil {
		panic(err) // static table
	}
	return t
}

// Lookup returns the route at path.
func (t *Table) Lookup(path string) (Route, bool) {
	i, ok := t.byPath[path]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Title returns the route's title, falling back to AppName.
func Title(r Route) string {
	if r.Title == "" {
		return AppName
	}
	return r.Title
}
