package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pictofold/pictofold-cli/internal/client/api"
	"github.com/pictofold/pictofold-cli/internal/client/config"
	"github.com/pictofold/pictofold-cli/internal/client/flows/login"
	"github.com/pictofold/pictofold-cli/internal/client/preview"
	"github.com/pictofold/pictofold-cli/internal/client/session"
	"github.com/pictofold/pictofold-cli/internal/client/storage"
	"github.com/pictofold/pictofold-cli/internal/logging"
)

type fakeGateway struct {
	signupErr    error
	verifyErr    error
	loginToken   string
	loginErr     error
	uploadAsset  *api.Asset
	uploadErr    error
	protected    string
	protectedErr error

	verifyCalls int
	resendCalls int
	lastEmail   string
	lastOTP     string
}

func (f *fakeGateway) Signup(ctx context.Context, username, email, password string) error {
	f.lastEmail = email
	return f.signupErr
}

func (f *fakeGateway) VerifyOTP(ctx context.Context, email, otp string) error {
	f.verifyCalls++
	f.lastEmail, f.lastOTP = email, otp
	return f.verifyErr
}

func (f *fakeGateway) ResendOTP(ctx context.Context, email string) error {
	f.resendCalls++
	return nil
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeGateway) ForgotPassword(ctx context.Context, email string) error {
	f.lastEmail = email
	return nil
}

func (f *fakeGateway) ValidateOTP(ctx context.Context, email, otp string) error {
	f.lastOTP = otp
	return f.verifyErr
}

func (f *fakeGateway) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return nil
}

func (f *fakeGateway) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (*api.Asset, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadAsset, nil
}

func (f *fakeGateway) Protected(ctx context.Context) (string, error) {
	return f.protected, f.protectedErr
}

// newTestApp builds an App over a fake gateway, an in-memory state database,
// and scripted line input. Password prompts are fed from pwQueue.
func newTestApp(t *testing.T, gw api.Gateway, input string, pwQueue ...string) (*App, *bytes.Buffer) {
	t.Helper()

	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	sessions := session.NewStore(db, log)

	previews, err := preview.NewManager(filepath.Join(t.TempDir(), "previews"))
	require.NoError(t, err)

	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		if len(pwQueue) == 0 {
			return nil, io.EOF
		}
		pw := pwQueue[0]
		pwQueue = pwQueue[1:]
		return []byte(pw), nil
	}

	var out bytes.Buffer
	return &App{
		config:    &config.Config{},
		log:       log,
		db:        db,
		sessions:  sessions,
		gateway:   gw,
		loginCtrl: login.New(gw, sessions),
		previews:  previews,
		reader:    bufio.NewReader(strings.NewReader(input)),
		out:       &out,
	}, &out
}

func TestLogin_Success(t *testing.T) {
	gw := &fakeGateway{loginToken: "tok-1"}
	app, out := newTestApp(t, gw, "alice@example.com\n", "hunter2")

	require.NoError(t, app.Login(context.Background()))
	require.True(t, app.isLoggedIn())
	require.Contains(t, out.String(), "Login successful!")
}

func TestLogin_Rejected(t *testing.T) {
	gw := &fakeGateway{loginErr: &api.RejectError{StatusCode: 400, Message: "Incorrect password!"}}
	app, out := newTestApp(t, gw, "alice@example.com\n", "wrong")

	require.NoError(t, app.Login(context.Background()))
	require.False(t, app.isLoggedIn())
	require.Contains(t, out.String(), "Incorrect password!")
}

func TestLogout(t *testing.T) {
	gw := &fakeGateway{loginToken: "tok-1"}
	app, out := newTestApp(t, gw, "alice@example.com\n", "hunter2")

	ctx := context.Background()
	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.Logout(ctx))
	require.False(t, app.isLoggedIn())
	require.Contains(t, out.String(), "You are signed out.")
}

func TestSignup_HappyPath(t *testing.T) {
	gw := &fakeGateway{}
	input := strings.Join([]string{"alice", "alice@example.com", "123456"}, "\n") + "\n"
	app, out := newTestApp(t, gw, input, "hunter2", "hunter2")

	require.NoError(t, app.Signup(context.Background()))
	require.Equal(t, 1, gw.verifyCalls)
	require.Contains(t, out.String(), "OTP sent to your email!")
	require.Contains(t, out.String(), "Email verified. You can sign in now.")
}

func TestSignup_RejectedCodeAndResend(t *testing.T) {
	gw := &fakeGateway{verifyErr: &api.RejectError{StatusCode: 400, Message: "Invalid OTP"}}
	input := strings.Join([]string{
		"alice",
		"alice@example.com",
		"999999",
		"resend",
		"999999",
	}, "\n") + "\n"
	app, out := newTestApp(t, gw, input, "hunter2", "hunter2")

	// Input runs out while the flow is still awaiting a valid code.
	require.Error(t, app.Signup(context.Background()))
	require.Contains(t, out.String(), "Invalid OTP")
	require.Equal(t, 2, gw.verifyCalls)
	require.Equal(t, 1, gw.resendCalls)
}

func TestUpload_ConfirmPrintsRecord(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cat.png")
	require.NoError(t, os.WriteFile(src, []byte("pngdata"), 0o600))

	gw := &fakeGateway{uploadAsset: &api.Asset{
		URL:              "https://cdn.example.com/cat.png",
		OriginalFilename: "cat.png",
		Format:           "png",
		FileSizeBytes:    7,
		ProcessingStatus: "complete",
	}}
	input := src + "\nupload\n"
	app, out := newTestApp(t, gw, input)

	require.NoError(t, app.Upload(context.Background()))
	require.Contains(t, out.String(), "Preview ready:")
	require.Contains(t, out.String(), "Upload confirmed.")
	require.Contains(t, out.String(), "https://cdn.example.com/cat.png")
}

func TestUpload_UnauthorizedDropsSession(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cat.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpgdata"), 0o600))

	gw := &fakeGateway{loginToken: "tok-1", uploadErr: api.ErrUnauthorized}
	input := "alice@example.com\n" + src + "\nupload\n"
	app, out := newTestApp(t, gw, input, "hunter2")

	ctx := context.Background()
	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.Upload(ctx))
	require.False(t, app.isLoggedIn())
	require.Contains(t, out.String(), "You are no longer signed in.")
}

func TestUpload_Cancel(t *testing.T) {
	gw := &fakeGateway{}
	app, _ := newTestApp(t, gw, "cancel\n")

	require.NoError(t, app.Upload(context.Background()))
}

func TestProfile_UnauthorizedDropsSession(t *testing.T) {
	gw := &fakeGateway{loginToken: "tok-1", protectedErr: api.ErrUnauthorized}
	app, out := newTestApp(t, gw, "alice@example.com\n", "hunter2")

	ctx := context.Background()
	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.Profile(ctx))
	require.False(t, app.isLoggedIn())
	require.Contains(t, out.String(), "You are no longer signed in.")
}

func TestProfile_PrintsBody(t *testing.T) {
	gw := &fakeGateway{protected: "Hello alice, you are authenticated."}
	app, out := newTestApp(t, gw, "")

	require.NoError(t, app.Profile(context.Background()))
	require.Contains(t, out.String(), "Hello alice, you are authenticated.")
}

func TestForgot_FullFlow(t *testing.T) {
	gw := &fakeGateway{}
	input := strings.Join([]string{"alice@example.com", "123456"}, "\n") + "\n"
	app, out := newTestApp(t, gw, input, "newpass", "newpass")

	require.NoError(t, app.Forgot(context.Background()))
	require.Contains(t, out.String(), "Password reset. You can sign in with your new password.")
}
