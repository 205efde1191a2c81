package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/healthease/portal/internal/cli/client"
	"github.com/healthease/portal/internal/cli/config"
	"github.com/healthease/portal/internal/cli/navigator"
	envconfig "github.com/healthease/portal/internal/config"
	"github.com/healthease/portal/internal/loginflow"
	"github.com/spf13/cobra"
)

// loginOptions holds flag values and the collaborators runLogin uses.
// Nil collaborators are built from the environment.
type loginOptions struct {
	email    string
	password string
	remember bool
	portal   string
	browser  bool

	env        *envconfig.Config
	target     *config.Portal
	auth       loginflow.Authenticator
	store      loginflow.Storage
	router     loginflow.Router
	prompter   prompter
	out        io.Writer
	storeClose func() error
}

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a HealthEase portal",
		Long: `Sign in to a HealthEase portal.

Credentials come from flags, then HEALTHEASE_EMAIL / HEALTHEASE_PASSWORD,
then an interactive prompt. On success you are sent to the dashboard for
your role, or to two-factor verification when the portal asks for it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.out = cmd.OutOrStdout()
			return runLogin(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Email address (or set HEALTHEASE_EMAIL)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password (or set HEALTHEASE_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&opts.remember, "remember", false, "Remember me")
	cmd.Flags().StringVar(&opts.portal, "portal", "", "Portal URL or alias (or set HEALTHEASE_PORTAL)")
	cmd.Flags().BoolVar(&opts.browser, "open", false, "Open the next page in your browser")

	return cmd
}

func runLogin(ctx context.Context, opts *loginOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.out == nil {
		opts.out = os.Stdout
	}
	if err := opts.complete(ctx); err != nil {
		return err
	}
	if opts.storeClose != nil {
		defer opts.storeClose()
	}

	flow := loginflow.New(opts.auth, opts.store, loginflow.WithRouter(opts.router))
	interactive := opts.prompter.Interactive()

	creds := loginflow.Credentials{
		Email:    opts.email,
		Password: opts.password,
		Remember: opts.remember,
	}

	for attempt := 0; ; attempt++ {
		if interactive {
			if err := fillCredentials(opts.prompter, &creds, attempt > 0); err != nil {
				return err
			}
		}

		fmt.Fprintf(opts.out, "Signing in to %s (%s)...\n", opts.target.Alias, opts.target.URL)
		outcome := flow.Submit(ctx, creds)

		switch outcome.Kind {
		case loginflow.OutcomeNavigate:
			fmt.Fprintln(opts.out, "✓ Login successful!")
			return nil
		case loginflow.OutcomeSecondFactor, loginflow.OutcomeSuppressed:
			return nil
		}

		if !interactive {
			if outcome.ErrorKind == loginflow.ValidationError {
				return fmt.Errorf("%s (use --email/--password flags or HEALTHEASE_EMAIL/HEALTHEASE_PASSWORD env vars)", outcome.Message)
			}
			return outcome.Err()
		}

		fmt.Fprintf(opts.out, "✗ %s\n", outcome.Message)

		choice, err := opts.prompter.Recover()
		if err != nil {
			return err
		}
		if choice.quit {
			return outcome.Err()
		}
		if choice.route != "" {
			return flow.Navigate(ctx, choice.route)
		}

		// Try again: keep the email as a default, ask for the password again
		creds.Password = ""
	}
}

// complete fills in every collaborator not injected by a test
func (o *loginOptions) complete(ctx context.Context) error {
	if o.env == nil {
		env, err := loadEnv(ctx)
		if err != nil {
			return err
		}
		o.env = env
	}
	if o.email == "" {
		o.email = o.env.Credentials.Email
	}
	if o.password == "" {
		o.password = o.env.Credentials.Password
	}
	if o.portal == "" {
		o.portal = o.env.Portal
	}

	if o.target == nil {
		portal, err := getSelectedPortal(o.portal)
		if err != nil {
			return err
		}
		o.target = portal
	}

	if o.auth == nil {
		o.auth = client.New(o.target.APIBase())
	}
	if o.store == nil {
		store, err := openStorage(o.env)
		if err != nil {
			return err
		}
		o.store = store
		o.storeClose = store.Close
	}
	if o.router == nil {
		o.router = navigator.New(o.target.URL, o.out, navigator.WithBrowser(o.browser))
	}
	if o.prompter == nil {
		o.prompter = newTerminalPrompter(o.out)
	}

	return nil
}

// fillCredentials prompts for whatever is still missing. On a retry the
// email is offered again for editing.
func fillCredentials(p prompter, creds *loginflow.Credentials, retry bool) error {
	if creds.Email == "" || retry {
		email, err := p.Email(creds.Email)
		if err != nil {
			return err
		}
		creds.Email = email
	}
	if creds.Password == "" {
		password, err := p.Password()
		if err != nil {
			return err
		}
		creds.Password = password
	}
	return nil
}
