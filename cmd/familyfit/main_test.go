package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/familyfit/familyfit/internal/router"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FAMILYFIT_TOKEN", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if strings.TrimSpace(out) != "familyfit dev" {
		t.Errorf("output = %q, want %q", out, "familyfit dev")
	}
}

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	user := map[string]any{"id": 3, "username": "mum", "name": "Mum", "role": "mother", "total_score": 120}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			if body["password"] != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"用户名或密码错误"}`)) //nolint:errcheck
				return
			}
			resp := map[string]any{"token": "tok-1"}
			for k, v := range user {
				resp[k] = v
			}
			json.NewEncoder(w).Encode(resp) //nolint:errcheck
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(user) //nolint:errcheck
		case "/api/auth/logout":
			w.Write([]byte(`{"message":"ok"}`)) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	common := []string{"--api-url", srv.URL, "--state-dir", dir, "--log-file", "-"}

	out, err := execute(t, append([]string{"login", "--username", "mum", "--password", "secret"}, common...)...)
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if !strings.Contains(out, "logged in as Mum") {
		t.Errorf("login output = %q", out)
	}
	tok, err := os.ReadFile(filepath.Join(dir, "token"))
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if strings.TrimSpace(string(tok)) != "tok-1" {
		t.Errorf("token file = %q, want tok-1", tok)
	}

	out, err = execute(t, append([]string{"whoami"}, common...)...)
	if err != nil {
		t.Fatalf("whoami error: %v", err)
	}
	if !strings.Contains(out, "Mum (mum)") || !strings.Contains(out, "120 pts") {
		t.Errorf("whoami output = %q", out)
	}

	if _, err = execute(t, append([]string{"logout"}, common...)...); err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Errorf("token file still present after logout (stat err %v)", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	_, err := execute(t, "login", "--username", "mum", "--password", "nope",
		"--api-url", srv.URL, "--state-dir", dir, "--log-file", "-")
	if err == nil {
		t.Fatal("expected login error")
	}
	if !strings.Contains(err.Error(), "用户名或密码错误") {
		t.Errorf("error = %q, want server detail", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Error("token file written for failed login")
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	t.Setenv("FAMILYFIT_TOKEN", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("secret\n"))
	cmd.SetArgs([]string{"login", "--username", "mum", "--api-url", srv.URL, "--state-dir", dir, "--log-file", "-"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("login error: %v", err)
	}
	if !strings.Contains(out.String(), "password:") {
		t.Errorf("expected password prompt, got %q", out.String())
	}
}

func TestWhoamiAnonymous(t *testing.T) {
	_, err := execute(t, "whoami", "--state-dir", t.TempDir(), "--log-file", "-")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("whoami error = %v, want not logged in", err)
	}
}

func TestOpenUnknownPath(t *testing.T) {
	_, err := execute(t, "open", "settings", "--state-dir", t.TempDir(), "--log-file", "-")
	if !errors.Is(err, router.ErrNoRoute) {
		t.Errorf("open error = %v, want ErrNoRoute", err)
	}
}

func TestPromptPasswordFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close() //nolint:errcheck
	if _, err := w.WriteString("hunter2\n"); err != nil {
		t.Fatal(err)
	}
	w.Close() //nolint:errcheck

	var out bytes.Buffer
	got, err := promptPassword(&out, r, bufio.NewReader(r))
	if err != nil {
		t.Fatalf("promptPassword error: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("password = %q, want hunter2", got)
	}
	if !strings.Contains(out.String(), "password:") {
		t.Errorf("prompt = %q", out.String())
	}
}
