package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/healthease/portal/internal/loginflow"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// recovery is what the user picked after a failed sign-in
type recovery struct {
	quit  bool
	route loginflow.Route
}

// prompter collects form input from the user
type prompter interface {
	Interactive() bool
	Email(current string) (string, error)
	Password() (string, error)
	Recover() (recovery, error)
}

// terminalPrompter reads from the controlling terminal
type terminalPrompter struct {
	out io.Writer
}

func newTerminalPrompter(out io.Writer) *terminalPrompter {
	return &terminalPrompter{out: out}
}

// Interactive is true when stdin is a terminal (not piped)
func (p *terminalPrompter) Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (p *terminalPrompter) Email(current string) (string, error) {
	prompt := promptui.Prompt{
		Label:     "Email",
		Default:   current,
		AllowEdit: true,
	}

	email, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("failed to read email: %w", err)
	}
	return email, nil
}

func (p *terminalPrompter) Password() (string, error) {
	fmt.Fprint(p.out, "Password: ")
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// recoveryOptions mirror the links under the login form
var recoveryOptions = []struct {
	Label    string
	Recovery recovery
}{
	{Label: "Try again"},
	{Label: "Forgot password?", Recovery: recovery{route: loginflow.RouteForgotPassword}},
	{Label: "Create account", Recovery: recovery{route: loginflow.RouteRegister}},
	{Label: "Admin Login", Recovery: recovery{route: loginflow.RouteAdminLogin}},
	{Label: "Quit", Recovery: recovery{quit: true}},
}

func (p *terminalPrompter) Recover() (recovery, error) {
	prompt := promptui.Select{
		Label: "What next?",
		Items: recoveryOptions,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ .Label | cyan }}",
			Inactive: "  {{ .Label }}",
			Selected: "{{ .Label | green }}",
		},
	}

	index, _, err := prompt.Run()
	if err != nil {
		// Ctrl-C / Ctrl-D at the menu means stop
		return recovery{quit: true}, nil
	}
	return recoveryOptions[index].Recovery, nil
}
