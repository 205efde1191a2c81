// Package loginflow implements the portal sign-in handshake: validate the
// credentials, ask the authentication service once, then decide where the
// user goes next.
package loginflow

import (
	"context"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Keys written to local storage after a completed login.
// They hold UI hints only and are never used to authenticate.
const (
	StorageKeyRole   = "role"
	StorageKeyStatus = "status"
)

// Credentials is what the user typed into the login form.
// It is never persisted.
type Credentials struct {
	Email    string
	Password string
	Remember bool
}

// AuthResponse is the body of a successful login call. Every field is optional.
type AuthResponse struct {
	Role        string `json:"role,omitempty"`
	Status      string `json:"status,omitempty"`
	Requires2FA bool   `json:"requires2FA,omitempty"`
}

// Authenticator checks credentials against the authentication service
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*AuthResponse, error)
}

// Storage keeps the non-sensitive values the portal UI personalizes with
type Storage interface {
	Set(ctx context.Context, key, value string) error
}

// Router moves the user to another portal page
type Router interface {
	Navigate(ctx context.Context, nav Navigation) error
}

// Flow runs login submissions. At most one request is outstanding per Flow.
type Flow struct {
	auth   Authenticator
	store  Storage
	router Router
	logger zerolog.Logger

	busy atomic.Bool
}

// Option configures a Flow
type Option func(*Flow)

// WithRouter makes Submit and Navigate hand navigations to router
func WithRouter(router Router) Option {
	return func(f *Flow) {
		f.router = router
	}
}

// WithLogger replaces the global logger
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

// New creates a Flow that authenticates with auth and caches UI hints in store
func New(auth Authenticator, store Storage, opts ...Option) *Flow {
	f := &Flow{
		auth:   auth,
		store:  store,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With().Str("component", "loginflow").Logger()
	return f
}

// Busy reports whether a submission is waiting on the authentication service
func (f *Flow) Busy() bool {
	return f.busy.Load()
}

// Submit validates creds, authenticates once and resolves the next page.
// A call made while another submission is in flight returns Suppressed
// without doing anything.
func (f *Flow) Submit(ctx context.Context, creds Credentials) Outcome {
	if !f.busy.CompareAndSwap(false, true) {
		f.logger.Debug().Msg("Submission ignored, request already in flight")
		return Suppressed()
	}
	defer f.busy.Store(false)

	logger := f.logger.With().
		Str("submission_id", ulid.Make().String()).
		Bool("remember", creds.Remember).
		Logger()

	if msg := Validate(creds); msg != "" {
		logger.Debug().Str("reason", msg).Msg("Credentials rejected before submission")
		return Failed(ValidationError, msg)
	}

	logger.Info().Msg("Submitting credentials")

	resp, err := f.auth.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		msg := ErrorMessage(err)
		logger.Warn().Err(err).Str("message", msg).Msg("Authentication failed")
		return Failed(ServiceError, msg)
	}
	if resp == nil {
		resp = &AuthResponse{}
	}

	var outcome Outcome
	if resp.Requires2FA {
		logger.Info().Msg("Second factor required")
		outcome = NeedsSecondFactor(creds.Email)
	} else {
		f.remember(ctx, logger, resp)
		outcome = NavigateTo(RouteForRole(resp.Role))
		logger.Info().
			Str("role", resp.Role).
			Str("route", string(outcome.Route)).
			Msg("Login successful")
	}

	f.dispatch(ctx, logger, outcome)
	return outcome
}

// Navigate sends the user to one of the pages linked from the login form
func (f *Flow) Navigate(ctx context.Context, route Route) error {
	if f.router == nil {
		return nil
	}
	return f.router.Navigate(ctx, Navigation{Route: route})
}

// remember caches role and status for the UI. Failures only cost
// personalization, so they are logged and swallowed.
func (f *Flow) remember(ctx context.Context, logger zerolog.Logger, resp *AuthResponse) {
	if f.store == nil {
		return
	}
	if resp.Role != "" {
		if err := f.store.Set(ctx, StorageKeyRole, resp.Role); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache role")
		}
	}
	if resp.Status != "" {
		if err := f.store.Set(ctx, StorageKeyStatus, resp.Status); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache status")
		}
	}
}

func (f *Flow) dispatch(ctx context.Context, logger zerolog.Logger, outcome Outcome) {
	if f.router == nil {
		return
	}
	nav, ok := outcome.Navigation()
	if !ok {
		return
	}
	if err := f.router.Navigate(ctx, nav); err != nil {
		logger.Warn().Err(err).Str("route", string(nav.Route)).Msg("Navigation failed")
	}
}
