package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/familyfit/familyfit/internal/browser"
	"github.com/familyfit/familyfit/internal/router"
	"github.com/familyfit/familyfit/internal/tui"
	"github.com/familyfit/familyfit/pkg/client"
	"github.com/familyfit/familyfit/pkg/domain"
)

func runTUI(a *app) error {
	m := tui.NewApp(a.client, a.guard, a.cfg.WebURL, version)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func loginCmd(get func() *app) *cobra.Command {
	var username, password, name string
	var register bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			out := cmd.OutOrStdout()
			raw := cmd.InOrStdin()
			in := bufio.NewReader(raw)

			var err error
			if username == "" {
				if username, err = prompt(out, in, "username"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword(out, raw, in); err != nil {
					return err
				}
			}
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}

			var u *domain.User
			if register {
				if name == "" {
					name = username
				}
				u, err = a.client.Register(ctxOrBackground(cmd), client.RegisterRequest{Username: username, Password: password, Name: name})
			} else {
				u, err = a.client.Login(ctxOrBackground(cmd), username, password)
			}
			if err != nil {
				return fmt.Errorf("login failed: %s", client.Message(err))
			}
			printOK(out, "logged in as %s (%s)", u.Name, u.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	cmd.Flags().BoolVar(&register, "register", false, "create the account first")
	cmd.Flags().StringVar(&name, "name", "", "display name for --register (default username)")
	return cmd
}

func prompt(out io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(out, "  %s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}

// fdReader is implemented by *os.File.
type fdReader interface {
	io.Reader
	Fd() uintptr
}

// promptPassword reads without echo when raw is a terminal and falls back to
// a plain line read otherwise (pipes, tests).
func promptPassword(out io.Writer, raw io.Reader, in *bufio.Reader) (string, error) {
	f, ok := raw.(fdReader)
	if !ok || !term.IsTerminal(f.Fd()) {
		return prompt(out, in, "password")
	}
	fmt.Fprint(out, "  password: ")
	b, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func logoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			out := cmd.OutOrStdout()
			if a.store.Token() == "" {
				printInfo(out, "not logged in")
				return nil
			}
			if err := a.client.Logout(ctxOrBackground(cmd)); err != nil && !client.IsAuthExpired(err) {
				printInfo(out, "server logout failed (%s), local session cleared", client.Message(err))
				return nil
			}
			printOK(out, "logged out")
			return nil
		},
	}
}

func whoamiCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in family member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			out := cmd.OutOrStdout()
			if a.store.Token() == "" {
				return errors.New("not logged in, run: familyfit login")
			}
			u, err := a.client.Me(ctxOrBackground(cmd))
			if err != nil {
				if client.IsAuthExpired(err) {
					return errors.New("session expired, run: familyfit login")
				}
				return fmt.Errorf("whoami: %s", client.Message(err))
			}
			printOK(out, "%s (%s)", u.Name, u.Username)
			printInfo(out, "role %s . %d pts . id %d", u.Role, u.TotalScore, u.ID)
			return nil
		},
	}
}

func openCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Open a page of the web app in the browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			path := router.HomePath
			if len(args) == 1 {
				path = args[0]
				if !strings.HasPrefix(path, "/") {
					path = "/" + path
				}
			}
			d, err := a.guard.Resolve(path)
			if err != nil {
				return err
			}
			if d.Redirected {
				printInfo(cmd.OutOrStdout(), "%s redirects to %s", d.Requested, d.Route.Path)
			}
			target, err := browser.OpenPage(a.cfg.WebURL, d.Route.Path)
			if err != nil {
				if target != "" {
					return fmt.Errorf("could not open browser, visit %s", target)
				}
				return err
			}
			printOK(cmd.OutOrStdout(), "opened %s (%s)", target, router.Title(d.Route))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "familyfit "+version)
		},
	}
}

// ctxOrBackground guards commands executed without ExecuteContext.
func ctxOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
