package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pictofold/pictofold-cli/internal/client/api"
)

// Profile calls the authenticated probe endpoint and prints its response.
// A 401 means the stored token is no longer honored, so the session is
// dropped and the user told to sign in again.
func (a *App) Profile(ctx context.Context) error {
	body, err := a.gateway.Protected(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			a.sessions.Logout(ctx)
		}
		fmt.Fprintln(a.out, api.ErrorMessage(err))
		return nil
	}
	fmt.Fprintln(a.out, body)
	return nil
}
