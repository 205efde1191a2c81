// Package navigator moves the user between portal pages from the terminal:
// it prints the page URL and can hand it to the system browser.
package navigator

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/healthease/portal/internal/loginflow"
)

// Navigator implements loginflow.Router for a terminal session
type Navigator struct {
	baseURL string
	out     io.Writer
	browser bool
	opener  func(string) error
}

// Option configures a Navigator
type Option func(*Navigator)

// WithBrowser makes every navigation also open the page in the browser
func WithBrowser(enabled bool) Option {
	return func(n *Navigator) {
		n.browser = enabled
	}
}

// WithOpener replaces the system browser launcher
func WithOpener(opener func(string) error) Option {
	return func(n *Navigator) {
		n.opener = opener
	}
}

// New creates a navigator for the portal web app at baseURL
func New(baseURL string, out io.Writer, opts ...Option) *Navigator {
	n := &Navigator{
		baseURL: strings.TrimRight(baseURL, "/"),
		out:     out,
		opener:  OpenBrowser,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// URL returns the absolute page URL for nav
func (n *Navigator) URL(nav loginflow.Navigation) string {
	target := n.baseURL + string(nav.Route)
	if nav.Email != "" {
		target += "?" + url.Values{"email": {nav.Email}}.Encode()
	}
	return target
}

// Navigate prints where the user goes next and opens it if enabled
func (n *Navigator) Navigate(ctx context.Context, nav loginflow.Navigation) error {
	target := n.URL(nav)

	if nav.Route == loginflow.RouteTwoFactor {
		fmt.Fprintf(n.out, "Two-factor verification required for %s\n", nav.Email)
		fmt.Fprintf(n.out, "Continue at: %s\n", target)
	} else {
		fmt.Fprintf(n.out, "Next: %s\n", target)
	}

	if !n.browser {
		return nil
	}
	if err := n.opener(target); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, target)
	}
	return nil
}

// OpenBrowser opens the URL in the default browser
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
