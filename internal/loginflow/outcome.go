package loginflow

import "errors"

// DefaultErrorMessage is shown when the service gives no message of its own
const DefaultErrorMessage = "Login failed"

// userMessager is implemented by service errors that carry a message
// meant for the person signing in
type userMessager interface {
	UserMessage() string
}

// ErrorMessage picks the text to show for a failed authentication call:
// the service-provided message when there is one, DefaultErrorMessage otherwise
func ErrorMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return DefaultErrorMessage
}

// OutcomeKind says what a submission resolved to
type OutcomeKind int

const (
	OutcomeNavigate OutcomeKind = iota
	OutcomeSecondFactor
	OutcomeError
	OutcomeSuppressed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNavigate:
		return "navigate"
	case OutcomeSecondFactor:
		return "second_factor"
	case OutcomeError:
		return "error"
	case OutcomeSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// ErrorKind classifies failed outcomes
type ErrorKind int

const (
	NoError ErrorKind = iota
	// ValidationError is a missing required field; no request was sent
	ValidationError
	// ServiceError is a non-2xx answer or a transport failure
	ServiceError
)

func (k ErrorKind) String() string {
	switch k {
	case ValidationError:
		return "validation"
	case ServiceError:
		return "service"
	default:
		return "none"
	}
}

// Outcome is the result of one call to Flow.Submit
type Outcome struct {
	Kind      OutcomeKind
	Route     Route
	Email     string
	ErrorKind ErrorKind
	Message   string
}

// NavigateTo is a completed login heading to a dashboard
func NavigateTo(route Route) Outcome {
	return Outcome{Kind: OutcomeNavigate, Route: route}
}

// NeedsSecondFactor is a login that must continue on the two-factor page
func NeedsSecondFactor(email string) Outcome {
	return Outcome{Kind: OutcomeSecondFactor, Route: RouteTwoFactor, Email: email}
}

// Failed is a login that stopped with a message for the user
func Failed(kind ErrorKind, message string) Outcome {
	return Outcome{Kind: OutcomeError, ErrorKind: kind, Message: message}
}

// Suppressed is a submission dropped because another one is in flight
func Suppressed() Outcome {
	return Outcome{Kind: OutcomeSuppressed}
}

// Err returns the outcome message as an error for failed outcomes, nil otherwise
func (o Outcome) Err() error {
	if o.Kind != OutcomeError {
		return nil
	}
	return errors.New(o.Message)
}

// Navigation returns what the Router should do for this outcome.
// ok is false for failed and suppressed outcomes.
func (o Outcome) Navigation() (nav Navigation, ok bool) {
	switch o.Kind {
	case OutcomeNavigate:
		return Navigation{Route: o.Route}, true
	case OutcomeSecondFactor:
		return Navigation{Route: RouteTwoFactor, Email: o.Email}, true
	default:
		return Navigation{}, false
	}
}
