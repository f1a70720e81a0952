// Package login holds the single-shot credential exchange. It has no
// intermediate states; it exists as the only writer of session state
// besides logout.
package login

import (
	"context"
	"sync"

	"github.com/pictofold/pictofold-cli/internal/client/api"
	"github.com/pictofold/pictofold-cli/internal/client/validation"
	"github.com/pictofold/pictofold-cli/internal/common"
)

// SessionWriter is the slice of the session store the controller needs.
type SessionWriter interface {
	Login(ctx context.Context, token string)
}

// Controller exchanges credentials for a token and hands it to the
// session store.
type Controller struct {
	gw       api.Gateway
	sessions SessionWriter

	mu     sync.Mutex
	errMsg string
	busy   bool
}

func New(gw api.Gateway, sessions SessionWriter) *Controller {
	return &Controller{gw: gw, sessions: sessions}
}

// Submit performs the credential exchange. It returns true when the user
// is now logged in; false leaves the session untouched with the reason in
// ErrorMessage. The error return is only for the busy guard.
func (c *Controller) Submit(ctx context.Context, email, password string) (bool, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return false, common.ErrBusy
	}
	c.busy = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	for _, r := range []validation.Result{
		validation.Required("email", email),
		validation.Required("password", password),
	} {
		if !r.Ok() {
			c.setError(r.Reason())
			return false, nil
		}
	}

	token, err := c.gw.Login(ctx, email, password)
	if err != nil {
		c.setError(api.ErrorMessage(err))
		return false, nil
	}

	c.sessions.Login(ctx, token)
	c.setError("")
	return true, nil
}

// ErrorMessage returns the failure text of the last Submit, or "".
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}
