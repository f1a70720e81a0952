// Package api is the client's boundary to the remote PictoFold service.
// It exposes the fixed HTTP contract as a narrow Gateway interface and maps
// transport failures, server rejections, and auth failures onto distinct
// error values (see errors.go).
package api

import (
	"context"
	"io"
)

// Gateway defines the remote operations the client flows depend on.
//
// All methods honor context cancellation/timeouts. A nil error means the
// server reported success; failures are one of ErrUnavailable,
// ErrUnauthorized, or *RejectError.
type Gateway interface {
	// Signup registers a new account; the server emails a one-time code.
	Signup(ctx context.Context, username, email, password string) error

	// VerifyOTP proves control of the email address during signup.
	VerifyOTP(ctx context.Context, email, otp string) error

	// ResendOTP asks the server to issue a fresh signup code.
	ResendOTP(ctx context.Context, email string) error

	// Login exchanges credentials for an opaque session token.
	Login(ctx context.Context, email, password string) (string, error)

	// ForgotPassword starts password recovery for the given email.
	ForgotPassword(ctx context.Context, email string) error

	// ValidateOTP checks a recovery code before the new password is chosen.
	ValidateOTP(ctx context.Context, email, otp string) error

	// ResetPassword sets a new password. The code travels with the request
	// because the server re-validates it atomically with the change.
	ResetPassword(ctx context.Context, email, otp, newPassword string) error

	// UploadImage transfers an image as multipart/form-data and returns the
	// confirmed remote asset record.
	UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (*Asset, error)

	// Protected calls the authenticated probe endpoint and returns its body.
	Protected(ctx context.Context) (string, error)
}

// TokenSource yields the current session token, or "" when logged out.
// The session store implements this; the gateway only reads.
type TokenSource interface {
	Token() string
}

// Asset is the remote record returned by a confirmed upload.
// ProcessingStatus is opaque display data; nothing branches on it.
type Asset struct {
	URL              string `json:"url"`
	OriginalFilename string `json:"originalFilename"`
	Format           string `json:"format"`
	FileSizeBytes    int64  `json:"fileSizeBytes"`
	ProcessingStatus string `json:"processingStatus"`
}
