package cli

import (
	"context"
	"fmt"
)

// Login prompts for credentials and exchanges them for a session token.
// On success the session is persisted locally and the signed-in command
// set becomes available.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password: ", a.out)
	if err != nil {
		return err
	}

	ok, err := a.loginCtrl.Submit(ctx, email, password)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, a.loginCtrl.ErrorMessage())
		return nil
	}
	fmt.Fprintln(a.out, "Login successful!")
	return nil
}

// Logout drops the session token from memory and from the local database.
func (a *App) Logout(ctx context.Context) error {
	a.sessions.Logout(ctx)
	fmt.Fprintln(a.out, "You are signed out.")
	return nil
}
