package router

import "fmt"

// TokenSource is the read side of the session store. Token must be a cheap
// local read.
type TokenSource interface {
	Token() string
}

// Decision is the result of a navigation attempt.
type Decision struct {
	// Route is where navigation ends up.
	Route Route
	// Requested is the path that was asked for.
	Requested string
	// Redirected is true when Route differs from the requested path.
	Redirected bool
	// Replace means the redirect replaces the current history entry
	// instead of pushing a new one.
	Replace bool
}

// Guard evaluates navigations against the session.
type Guard struct {
	table       *Table
	tokens      TokenSource
	enforceAuth bool
}

// NewGuard returns a guard over table. With enforceAuth false every route
// is open regardless of its RequiresAuth flag.
func NewGuard(table *Table, tokens TokenSource, enforceAuth bool) *Guard {
	return &Guard{table: table, tokens: tokens, enforceAuth: enforceAuth}
}

// EnforcesAuth reports the guard's posture.
func (g *Guard) EnforcesAuth() bool { return g.enforceAuth }

// Table returns the guarded route table.
func (g *Guard) Table() *Table { return g.table }

// Authenticated reports whether a session token is present.
func (g *Guard) Authenticated() bool {
	return g.tokens != nil && g.tokens.Token() != ""
}

// Resolve decides where a navigation to path lands.
func (g *Guard) Resolve(path string) (Decision, error) {
	target, ok := g.table.Lookup(path)
	if !ok {
		return Decision{}, fmt.Errorf("router.Resolve %q: %w", path, ErrNoRoute)
	}
	authed := g.Authenticated()

	switch {
	case g.enforceAuth && target.RequiresAuth && !authed:
		return g.redirect(path, LoginPath)
	case target.Path == LoginPath && authed:
		return g.redirect(path, HomePath)
	}
	return Decision{Route: target, Requested: path}, nil
}

func (g *Guard) redirect(from, to string) (Decision, error) {
	r, ok := g.table.Lookup(to)
	if !ok {
		return Decision{}, fmt.Errorf("router.Resolve %q: redirect target %q: %w", from, to, ErrNoRoute)
	}
	return Decision{Route: r, Requested: from, Redirected: true, Replace: true}, nil
}
