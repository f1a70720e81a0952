package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Upload(ctx context.Context) error
	Profile(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the PictoFold CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - help           — show available commands
//	  - signup         — create an account (email verification)
//	  - login          — sign in
//	  - forgot         — reset a forgotten password
//	  - exit | quit    — leave the program
//
//	Signed in:
//	  - help           — show available commands
//	  - upload         — upload an image
//	  - profile        — show the signed-in account
//	  - logout         — sign out
//	  - exit | quit    — leave the program
//
// Commands are gated on the session: signed-out commands are rejected while
// a session is active and vice versa. Any errors returned by command
// handlers are ignored here; handlers report their own errors. This keeps
// the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pf> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload, profile, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, forgot, exit")
			}

		case "signup":
			if a.isLoggedIn() {
				printlnFn("You are already signed in.")
				continue
			}
			_ = a.Signup(ctx)

		case "login":
			if a.isLoggedIn() {
				printlnFn("You are already signed in.")
				continue
			}
			_ = a.Login(ctx)

		case "forgot":
			if a.isLoggedIn() {
				printlnFn("You are already signed in.")
				continue
			}
			_ = a.Forgot(ctx)

		case "upload":
			if !a.isLoggedIn() {
				printlnFn("Sign in first.")
				continue
			}
			_ = a.Upload(ctx)

		case "profile":
			if !a.isLoggedIn() {
				printlnFn("Sign in first.")
				continue
			}
			_ = a.Profile(ctx)

		case "logout":
			if !a.isLoggedIn() {
				printlnFn("Sign in first.")
				continue
			}
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
