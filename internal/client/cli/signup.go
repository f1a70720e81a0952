package cli

import (
	"context"
	"fmt"

	"github.com/pictofold/pictofold-cli/internal/client/flows/signup"
)

// Signup drives the registration flow interactively: account details first,
// then the emailed one-time code. While waiting for the code the user can
// type "resend" to have it sent again or "change" to go back and fix the
// email address.
func (a *App) Signup(ctx context.Context) error {
	flow := signup.New(a.gateway)
	defer flow.Teardown()

	for {
		switch flow.State() {
		case signup.StateEntering:
			creds, err := a.readSignupDetails()
			if err != nil {
				return err
			}
			if err := flow.SubmitDetails(ctx, creds); err != nil {
				return err
			}
			a.report(flow.ErrorMessage(), flow.InfoMessage())

		case signup.StateAwaitingCode:
			code, err := GetSimpleText(a.reader,
				fmt.Sprintf("Enter the code sent to %s (or 'resend' / 'change')", flow.Email()), a.out)
			if err != nil {
				return err
			}
			switch code {
			case "resend":
				if err := flow.Resend(ctx); err != nil {
					return err
				}
			case "change":
				if err := flow.ChangeEmail(); err != nil {
					return err
				}
				continue
			default:
				if err := flow.SubmitCode(ctx, code); err != nil {
					return err
				}
			}
			a.report(flow.ErrorMessage(), flow.InfoMessage())

		case signup.StateVerified:
			return nil
		}
	}
}

func (a *App) readSignupDetails() (signup.Credentials, error) {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return signup.Credentials{}, err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return signup.Credentials{}, err
	}
	password, err := GetPassword("Enter password: ", a.out)
	if err != nil {
		return signup.Credentials{}, err
	}
	confirmation, err := GetPassword("Confirm password: ", a.out)
	if err != nil {
		return signup.Credentials{}, err
	}
	return signup.Credentials{
		Username:             username,
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	}, nil
}

// report prints the outcome of a flow step: the error message when the step
// failed, the info message otherwise.
func (a *App) report(errMsg, infoMsg string) {
	if errMsg != "" {
		fmt.Fprintln(a.out, errMsg)
		return
	}
	if infoMsg != "" {
		fmt.Fprintln(a.out, infoMsg)
	}
}
