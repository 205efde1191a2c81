package loginflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth records calls and answers with a canned response
type fakeAuth struct {
	mu       sync.Mutex
	calls    int
	email    string
	password string

	resp *AuthResponse
	err  error

	// started and release let a test hold a call open
	started chan struct{}
	release chan struct{}
}

func (f *fakeAuth) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	f.mu.Lock()
	f.calls++
	f.email = email
	f.password = password
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

func (f *fakeAuth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memStore struct {
	values map[string]string
	err    error
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (m *memStore) Set(ctx context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

type recordingRouter struct {
	navs []Navigation
	err  error
}

func (r *recordingRouter) Navigate(ctx context.Context, nav Navigation) error {
	r.navs = append(r.navs, nav)
	return r.err
}

// messageError mimics a service error carrying a message from the server
type messageError struct {
	msg string
}

func (e *messageError) Error() string       { return "login failed (status 401)" }
func (e *messageError) UserMessage() string { return e.msg }

func newTestFlow(auth Authenticator, store Storage, router Router) *Flow {
	return New(auth, store, WithRouter(router), WithLogger(zerolog.Nop()))
}

func TestSubmit_ValidationSkipsNetwork(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantMsg string
	}{
		{name: "empty email", creds: Credentials{Password: "secret"}, wantMsg: "Email is required"},
		{name: "whitespace email", creds: Credentials{Email: "   ", Password: "secret"}, wantMsg: "Email is required"},
		{name: "empty password", creds: Credentials{Email: "a@b.com"}, wantMsg: "Password is required"},
		{name: "both empty reports email first", creds: Credentials{}, wantMsg: "Email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{resp: &AuthResponse{Role: RoleAdmin}}
			store := newMemStore()
			router := &recordingRouter{}

			outcome := newTestFlow(auth, store, router).Submit(context.Background(), tt.creds)

			assert.Equal(t, OutcomeError, outcome.Kind)
			assert.Equal(t, ValidationError, outcome.ErrorKind)
			assert.Equal(t, tt.wantMsg, outcome.Message)
			assert.Zero(t, auth.callCount())
			assert.Empty(t, store.values)
			assert.Empty(t, router.navs)
		})
	}
}

func TestSubmit_SecondFactorCarriesEmail(t *testing.T) {
	auth := &fakeAuth{resp: &AuthResponse{Role: RoleDoctor, Status: "active", Requires2FA: true}}
	store := newMemStore()
	router := &recordingRouter{}

	outcome := newTestFlow(auth, store, router).Submit(context.Background(), Credentials{
		Email:    "dr.who@example.com",
		Password: "tardis",
	})

	assert.Equal(t, OutcomeSecondFactor, outcome.Kind)
	assert.Equal(t, "dr.who@example.com", outcome.Email)
	assert.Equal(t, RouteTwoFactor, outcome.Route)
	assert.Empty(t, store.values, "no storage write on 2FA handoff")
	require.Len(t, router.navs, 1)
	assert.Equal(t, Navigation{Route: RouteTwoFactor, Email: "dr.who@example.com"}, router.navs[0])
}

func TestSubmit_AdminRolePersistedAndRouted(t *testing.T) {
	auth := &fakeAuth{resp: &AuthResponse{Role: RoleAdmin}}
	store := newMemStore()
	router := &recordingRouter{}

	outcome := newTestFlow(auth, store, router).Submit(context.Background(), Credentials{
		Email:    "root@example.com",
		Password: "hunter2",
	})

	assert.Equal(t, NavigateTo(RouteAdminDashboard), outcome)
	assert.Equal(t, map[string]string{StorageKeyRole: RoleAdmin}, store.values)
	require.Len(t, router.navs, 1)
	assert.Equal(t, RouteAdminDashboard, router.navs[0].Route)
	assert.Empty(t, router.navs[0].Email)

	assert.Equal(t, 1, auth.callCount())
	assert.Equal(t, "root@example.com", auth.email)
	assert.Equal(t, "hunter2", auth.password)
}

func TestSubmit_StatusPersisted(t *testing.T) {
	auth := &fakeAuth{resp: &AuthResponse{Role: RoleDoctor, Status: "pending"}}
	store := newMemStore()

	outcome := newTestFlow(auth, store, nil).Submit(context.Background(), Credentials{
		Email:    "doc@example.com",
		Password: "pw",
	})

	assert.Equal(t, RouteDoctorDashboard, outcome.Route)
	assert.Equal(t, "doctor", store.values[StorageKeyRole])
	assert.Equal(t, "pending", store.values[StorageKeyStatus])
}

func TestSubmit_MissingRoleDefaultsToPatient(t *testing.T) {
	for _, resp := range []*AuthResponse{{}, nil, {Role: "nurse"}} {
		auth := &fakeAuth{resp: resp}
		store := newMemStore()

		outcome := newTestFlow(auth, store, nil).Submit(context.Background(), Credentials{
			Email:    "pat@example.com",
			Password: "pw",
		})

		assert.Equal(t, OutcomeNavigate, outcome.Kind)
		assert.Equal(t, RoutePatientDashboard, outcome.Route)
	}
}

func TestSubmit_ServiceErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "service message", err: &messageError{msg: "Invalid credentials"}, wantMsg: "Invalid credentials"},
		{name: "wrapped service message", err: errors.Join(errors.New("ctx"), &messageError{msg: "Account locked"}), wantMsg: "Account locked"},
		{name: "empty service message", err: &messageError{}, wantMsg: DefaultErrorMessage},
		{name: "network failure", err: errors.New("dial tcp: connection refused"), wantMsg: "Login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{err: tt.err}
			store := newMemStore()
			router := &recordingRouter{}
			flow := newTestFlow(auth, store, router)

			outcome := flow.Submit(context.Background(), Credentials{Email: "a@b.com", Password: "pw"})

			assert.Equal(t, OutcomeError, outcome.Kind)
			assert.Equal(t, ServiceError, outcome.ErrorKind)
			assert.Equal(t, tt.wantMsg, outcome.Message)
			assert.EqualError(t, outcome.Err(), tt.wantMsg)
			assert.Empty(t, store.values)
			assert.Empty(t, router.navs)
			assert.False(t, flow.Busy(), "busy flag must clear after an error")
		})
	}
}

func TestSubmit_StorageFailureDoesNotBlockLogin(t *testing.T) {
	auth := &fakeAuth{resp: &AuthResponse{Role: RoleDoctor}}
	store := &memStore{values: map[string]string{}, err: errors.New("disk full")}
	router := &recordingRouter{}

	outcome := newTestFlow(auth, store, router).Submit(context.Background(), Credentials{Email: "a@b.com", Password: "pw"})

	assert.Equal(t, NavigateTo(RouteDoctorDashboard), outcome)
	assert.Len(t, router.navs, 1)
}

func TestSubmit_RouterFailureKeepsOutcome(t *testing.T) {
	auth := &fakeAuth{resp: &AuthResponse{Role: RoleAdmin}}
	router := &recordingRouter{err: errors.New("no browser")}

	outcome := newTestFlow(auth, newMemStore(), router).Submit(context.Background(), Credentials{Email: "a@b.com", Password: "pw"})

	assert.Equal(t, NavigateTo(RouteAdminDashboard), outcome)
}

func TestSubmit_InFlightSubmissionSuppressed(t *testing.T) {
	auth := &fakeAuth{
		resp:    &AuthResponse{Role: RoleAdmin},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	flow := newTestFlow(auth, newMemStore(), nil)
	creds := Credentials{Email: "a@b.com", Password: "pw"}

	done := make(chan Outcome)
	go func() {
		done <- flow.Submit(context.Background(), creds)
	}()

	<-auth.started
	assert.True(t, flow.Busy())

	second := flow.Submit(context.Background(), creds)
	assert.Equal(t, OutcomeSuppressed, second.Kind)
	assert.NoError(t, second.Err())

	close(auth.release)
	first := <-done

	assert.Equal(t, NavigateTo(RouteAdminDashboard), first)
	assert.Equal(t, 1, auth.callCount())
	assert.False(t, flow.Busy())
}

func TestSubmit_ResubmitAfterCompletion(t *testing.T) {
	auth := &fakeAuth{err: &messageError{msg: "Invalid credentials"}}
	flow := newTestFlow(auth, newMemStore(), nil)
	creds := Credentials{Email: "a@b.com", Password: "wrong"}

	flow.Submit(context.Background(), creds)
	flow.Submit(context.Background(), creds)

	assert.Equal(t, 2, auth.callCount())
}

func TestNavigate_ForwardsLinks(t *testing.T) {
	router := &recordingRouter{}
	flow := newTestFlow(&fakeAuth{}, newMemStore(), router)

	require.NoError(t, flow.Navigate(context.Background(), RouteForgotPassword))
	require.NoError(t, flow.Navigate(context.Background(), RouteRegister))

	assert.Equal(t, []Navigation{{Route: RouteForgotPassword}, {Route: RouteRegister}}, router.navs)
}

func TestNavigate_NoRouter(t *testing.T) {
	flow := New(&fakeAuth{}, nil, WithLogger(zerolog.Nop()))
	assert.NoError(t, flow.Navigate(context.Background(), RouteAdminLogin))
}
