// Package signup implements the registration flow: collect details, have
// the server email a one-time code, verify it. The flow is a small state
// machine; the view layer reads State and the message accessors after each
// call instead of being driven directly.
package signup

import (
	"context"
	"errors"
	"sync"

	"github.com/pictofold/pictofold-cli/internal/client/api"
	"github.com/pictofold/pictofold-cli/internal/client/validation"
	"github.com/pictofold/pictofold-cli/internal/common"
)

type State string

const (
	StateEntering     State = "entering"
	StateAwaitingCode State = "awaiting_code"
	StateVerified     State = "verified"
)

// ErrInvalidState is returned when an operation is attempted from a state
// it has no transition from.
var ErrInvalidState = errors.New("operation not allowed in current state")

// Credentials is the transient registration input. It lives only inside
// the flow while the user is entering details and is never persisted.
type Credentials struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Flow walks Entering → AwaitingCode → Verified. At most one request is in
// flight at a time; a second concurrent call fails with common.ErrBusy.
type Flow struct {
	gw api.Gateway

	mu      sync.Mutex
	state   State
	email   string
	code    string
	errMsg  string
	infoMsg string
	busy    bool
	closed  bool
}

func New(gw api.Gateway) *Flow {
	return &Flow{gw: gw, state: StateEntering}
}

// SubmitDetails validates the credentials locally, then registers the
// account. On success the server has emailed a code and the flow moves to
// AwaitingCode; on any failure it stays in Entering with the reason in
// ErrorMessage.
func (f *Flow) SubmitDetails(ctx context.Context, creds Credentials) error {
	if err := f.begin(StateEntering); err != nil {
		return err
	}
	defer f.end()

	for _, r := range []validation.Result{
		validation.Required("username", creds.Username),
		validation.Required("email", creds.Email),
		validation.Required("password", creds.Password),
		validation.PasswordsMatch(creds.Password, creds.PasswordConfirmation),
	} {
		if !r.Ok() {
			f.setError(r.Reason())
			return nil
		}
	}

	if err := f.gw.Signup(ctx, creds.Username, creds.Email, creds.Password); err != nil {
		f.setError(api.ErrorMessage(err))
		return nil
	}

	f.mu.Lock()
	f.email = creds.Email
	f.state = StateAwaitingCode
	f.errMsg = ""
	f.infoMsg = "OTP sent to your email!"
	f.mu.Unlock()
	return nil
}

// SubmitCode verifies the one-time code. On failure the entered code is
// kept so the user can correct a typo instead of retyping.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	if err := f.begin(StateAwaitingCode); err != nil {
		return err
	}
	defer f.end()

	f.mu.Lock()
	f.code = code
	email := f.email
	f.mu.Unlock()

	if err := f.gw.VerifyOTP(ctx, email, code); err != nil {
		f.setError(api.ErrorMessage(err))
		return nil
	}

	f.mu.Lock()
	f.state = StateVerified
	f.errMsg = ""
	f.infoMsg = "Email verified. You can sign in now."
	f.mu.Unlock()
	return nil
}

// Resend asks the server for a fresh code using the email already
// submitted. The flow stays in AwaitingCode either way; the previously
// entered code is kept, since the server is the authority on which codes
// are still valid.
func (f *Flow) Resend(ctx context.Context) error {
	if err := f.begin(StateAwaitingCode); err != nil {
		return err
	}
	defer f.end()

	f.mu.Lock()
	email := f.email
	f.mu.Unlock()

	if err := f.gw.ResendOTP(ctx, email); err != nil {
		f.setError(api.ErrorMessage(err))
		return nil
	}

	f.mu.Lock()
	f.errMsg = ""
	f.infoMsg = "OTP sent to your email!"
	f.mu.Unlock()
	return nil
}

// ChangeEmail is the only way back from AwaitingCode to Entering. It
// discards the in-flight challenge.
func (f *Flow) ChangeEmail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return common.ErrFlowClosed
	}
	if f.busy {
		return common.ErrBusy
	}
	if f.state != StateAwaitingCode {
		return ErrInvalidState
	}
	f.state = StateEntering
	f.email = ""
	f.code = ""
	f.errMsg = ""
	f.infoMsg = ""
	return nil
}

// Teardown closes the flow; any later call fails with common.ErrFlowClosed.
func (f *Flow) Teardown() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Email returns the address the pending challenge was sent to.
func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Code returns the last entered one-time code.
func (f *Flow) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

// ErrorMessage returns the failure text of the last operation, or "".
func (f *Flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// InfoMessage returns the non-error notice of the last operation, or "".
func (f *Flow) InfoMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infoMsg
}

// begin acquires the busy guard after checking the flow is open and in
// the expected state.
func (f *Flow) begin(want State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return common.ErrFlowClosed
	}
	if f.busy {
		return common.ErrBusy
	}
	if f.state != want {
		return ErrInvalidState
	}
	f.busy = true
	return nil
}

func (f *Flow) end() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

func (f *Flow) setError(msg string) {
	f.mu.Lock()
	f.errMsg = msg
	f.infoMsg = ""
	f.mu.Unlock()
}
