// Package passwordreset implements password recovery: request a code for
// an email, validate the code, then set the new password. The code travels
// again with the final request because the server re-validates it
// atomically with the password change.
package passwordreset

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
	StateEntering        State = "entering"
	StateAwaitingCode    State = "awaiting_code"
	StateSettingPassword State = "setting_password"
	StateCompleted       State = "completed"
)

var ErrInvalidState = errors.New("operation not allowed in current state")

// Flow walks Entering → AwaitingCode → SettingPassword → Completed, with
// ChangeEmail as the only backward transition.
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

// RequestCode asks the server to email a recovery code.
func (f *Flow) RequestCode(ctx context.Context, email string) error {
	if err := f.begin(StateEntering); err != nil {
		return err
	}
	defer f.end()

	if r := validation.Required("email", email); !r.Ok() {
		f.setError(r.Reason())
		return nil
	}

	if err := f.gw.ForgotPassword(ctx, email); err != nil {
		f.setError(api.ErrorMessage(err))
		return nil
	}

	f.mu.Lock()
	f.email = email
	f.state = StateAwaitingCode
	f.errMsg = ""
	f.infoMsg = "OTP sent to your email!"
	f.mu.Unlock()
	return nil
}

// VerifyCode validates the recovery code. The entered email is preserved
// on failure.
func (f *Flow) VerifyCode(ctx context.Context, code string) error {
	if err := f.begin(StateAwaitingCode); err != nil {
		return err
	}
	defer f.end()

	f.mu.Lock()
	f.code = code
	email := f.email
	f.mu.Unlock()

	if err := f.gw.ValidateOTP(ctx, email, code); err != nil {
		f.setError(api.ErrorMessage(err))
		return nil
	}

	f.mu.Lock()
	f.state = StateSettingPassword
	f.errMsg = ""
	f.infoMsg = ""
	f.mu.Unlock()
	return nil
}

// ChangeEmail steps back from AwaitingCode to Entering, discarding the
// pending code.
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

// ResetPassword checks the confirmation locally, then submits the new
// password together with the email and code. A local mismatch keeps the
// state and issues no network call.
func (f *Flow) ResetPassword(ctx context.Context, newPassword, confirmation string) error {
	if err := f.begin(StateSettingPassword); err != nil {
		return err
	}
	defer f.end()

	for _, r := range []validation.Result{
		validation.Required("password", newPassword),
		validation.PasswordsMatch(newPassword, confirmation),
	} {
		if !r.Ok() {
			f.setError(r.Reason())
			return nil
		}
	}

	f.mu.Lock()
	email, code := f.email, f.code
	f.mu.Unlock()

	if err := f.gw.ResetPassword(ctx, email, code, newPassword); err != nil {
		f.setError(api.ErrorMessage(err))
		return nil
	}

	f.mu.Lock()
	f.state = StateCompleted
	f.errMsg = ""
	f.infoMsg = "Password reset. You can sign in with your new password."
	f.mu.Unlock()
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

func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *Flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Flow) InfoMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infoMsg
}

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
