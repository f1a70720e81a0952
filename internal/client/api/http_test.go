package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pictofold/pictofold-cli/internal/logging"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) Token() string { return s.token }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newGateway(t *testing.T, handler http.Handler, token string) (*HTTPGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewHTTPGateway(srv.URL, &staticTokens{token: token}, 5*time.Second, testLogger())
	return g, srv
}

func TestSignup_Success(t *testing.T) {
	var gotPath string
	var gotBody string
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"OTP sent"}`))
	}), "")

	err := g.Signup(context.Background(), "ana", "ana@x.com", "p1")
	require.NoError(t, err)
	require.Equal(t, "/auth/signup", gotPath)
	require.Contains(t, gotBody, `"username":"ana"`)
	require.Contains(t, gotBody, `"email":"ana@x.com"`)
	require.Contains(t, gotBody, `"password":"p1"`)
}

func TestPostStatus_SuccessFalse_IsRejectError(t *testing.T) {
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Email already registered"}`))
	}), "")

	err := g.VerifyOTP(context.Background(), "ana@x.com", "123456")
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Email already registered", rej.Message)
}

func TestNon2xx_MessageField_Surfaced(t *testing.T) {
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid OTP"}`))
	}), "")

	err := g.ValidateOTP(context.Background(), "ana@x.com", "000000")
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, http.StatusBadRequest, rej.StatusCode)
	require.Equal(t, "Invalid OTP", rej.Message)
}

func TestNon2xx_ErrorField_Surfaced(t *testing.T) {
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"File size exceeds 10MB limit"}`))
	}), "tok")

	_, err := g.UploadImage(context.Background(), "a.jpg", "image/jpeg", strings.NewReader("x"))
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "File size exceeds 10MB limit", rej.Message)
}

func TestUnauthorized_MapsToErrUnauthorized(t *testing.T) {
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), "expired")

	_, err := g.Protected(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestUnreachable_MapsToErrUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing is listening anymore

	g := NewHTTPGateway(url, &staticTokens{}, time.Second, testLogger())
	err := g.ResendOTP(context.Background(), "ana@x.com")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestLogin_ReturnsToken(t *testing.T) {
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"token":"abc123","message":"Login successful!"}`))
	}), "")

	token, err := g.Login(context.Background(), "ana@x.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "abc123", token)
}

func TestLogin_MissingToken_IsRejectError(t *testing.T) {
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Incorrect password!"}`))
	}), "")

	_, err := g.Login(context.Background(), "ana@x.com", "pw")
	var rej *RejectError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "Incorrect password!", rej.Message)
}

func TestBearerAndRequestID_Headers(t *testing.T) {
	var auth, reqID string
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte("Hello ana, you are authenticated!"))
	}), "tok-1")

	body, err := g.Protected(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Hello ana, you are authenticated!", body)
	require.Equal(t, "Bearer tok-1", auth)
	require.NotEmpty(t, reqID)
}

func TestNoBearerHeader_WhenLoggedOut(t *testing.T) {
	var auth string
	var hasAuth bool
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"success":true}`))
	}), "")

	require.NoError(t, g.ForgotPassword(context.Background(), "ana@x.com"))
	require.False(t, hasAuth, "no Authorization header expected, got %q", auth)
}

func TestUploadImage_MultipartAndAssetDecoding(t *testing.T) {
	g, _ := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "a.jpg", fh.Filename)
		require.Equal(t, "image/jpeg", fh.Header.Get("Content-Type"))
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, "jpegdata", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/a.jpg","originalFilename":"a.jpg","format":"jpg","fileSizeBytes":1000,"processingStatus":"pending"}`))
	}), "tok")

	asset, err := g.UploadImage(context.Background(), "a.jpg", "image/jpeg", strings.NewReader("jpegdata"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/a.jpg", asset.URL)
	require.Equal(t, "a.jpg", asset.OriginalFilename)
	require.Equal(t, "jpg", asset.Format)
	require.Equal(t, int64(1000), asset.FileSizeBytes)
	require.Equal(t, "pending", asset.ProcessingStatus)
}

func TestErrorMessage_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &RejectError{Message: "Invalid OTP"}, "Invalid OTP"},
		{"rejection without message", &RejectError{StatusCode: 500}, "An error occurred. Please try again."},
		{"unavailable", ErrUnavailable, "Cannot reach the server. Please try again."},
		{"unauthorized", ErrUnauthorized, "You are no longer signed in."},
		{"unknown", errors.New("boom"), "An error occurred. Please try again."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ErrorMessage(tc.err))
		})
	}
}
