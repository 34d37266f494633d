// Package browser opens pages of the FamilyFit web app in the user's browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// opener starts the platform's URL handler. Replaced in tests.
var opener = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens the specified URL in the user's default browser.
func Open(rawURL string) error {
	switch runtime.GOOS {
	case "darwin":
		return opener("open", rawURL)
	case "linux":
		return opener("xdg-open", rawURL)
	case "windows":
		return opener("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// PageURL joins the web app origin and a route path.
func PageURL(webURL, path string) (string, error) {
	u, err := url.Parse(strings.TrimRight(webURL, "/"))
	if err != nil {
		return "", fmt.Errorf("browser.PageURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("browser.PageURL: unsupported scheme %q", u.Scheme)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String(), nil
}

// OpenPage opens path of the web app at webURL.
func OpenPage(webURL, path string) (string, error) {
	target, err := PageURL(webURL, path)
	if err != nil {
		return "", err
	}
	return target, Open(target)
}
