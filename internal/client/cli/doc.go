// Package cli provides the interactive PictoFold command-line client.
//
// It wires configuration, local session storage, the backend gateway, and
// an interactive REPL. The set of available commands depends on whether a
// session token is present.
//
// Key features:
//   - Signup with email verification (one-time code, resend, change email)
//   - Login / Logout with a locally persisted session
//   - Password reset (code request, validation, new password)
//   - Single-image upload with a local preview step
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
