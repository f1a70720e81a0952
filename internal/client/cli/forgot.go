package cli

import (
	"context"
	"fmt"

	"github.com/pictofold/pictofold-cli/internal/client/flows/passwordreset"
)

// Forgot drives the password-reset flow interactively: email, then the
// emailed one-time code, then the new password. While waiting for the
// code the user can type "change" to go back and fix the email address.
func (a *App) Forgot(ctx context.Context) error {
	flow := passwordreset.New(a.gateway)
	defer flow.Teardown()

	for {
		switch flow.State() {
		case passwordreset.StateEntering:
			email, err := GetSimpleText(a.reader, "Enter email", a.out)
			if err != nil {
				return err
			}
			if err := flow.RequestCode(ctx, email); err != nil {
				return err
			}
			a.report(flow.ErrorMessage(), flow.InfoMessage())

		case passwordreset.StateAwaitingCode:
			code, err := GetSimpleText(a.reader,
				fmt.Sprintf("Enter the code sent to %s (or 'change')", flow.Email()), a.out)
			if err != nil {
				return err
			}
			if code == "change" {
				if err := flow.ChangeEmail(); err != nil {
					return err
				}
				continue
			}
			if err := flow.VerifyCode(ctx, code); err != nil {
				return err
			}
			a.report(flow.ErrorMessage(), flow.InfoMessage())

		case passwordreset.StateSettingPassword:
			password, err := GetPassword("Enter new password: ", a.out)
			if err != nil {
				return err
			}
			confirmation, err := GetPassword("Confirm new password: ", a.out)
			if err != nil {
				return err
			}
			if err := flow.ResetPassword(ctx, password, confirmation); err != nil {
				return err
			}
			a.report(flow.ErrorMessage(), flow.InfoMessage())

		case passwordreset.StateCompleted:
			return nil
		}
	}
}
