package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pictofold/pictofold-cli/internal/logging"
)

// HTTPGateway implements Gateway over the service's JSON/multipart HTTP API.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        logging.Logger
}

// NewHTTPGateway constructs a gateway for the given base URL (e.g.
// "http://localhost:8080/api"). The token source supplies the bearer token
// for authenticated requests; it may yield "" while logged out.
func NewHTTPGateway(baseURL string, tokens TokenSource, timeout time.Duration, log logging.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
	}
}

// statusResponse is the {success, message} envelope of the auth endpoints.
type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorBody covers the failure payload variants the server produces:
// auth endpoints use "message", the image endpoints use "error".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (g *HTTPGateway) Signup(ctx context.Context, username, email, password string) error {
	return g.postStatus(ctx, "/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (g *HTTPGateway) VerifyOTP(ctx context.Context, email, otp string) error {
	return g.postStatus(ctx, "/auth/verify-otp", map[string]string{
		"email": email,
		"otp":   otp,
	})
}

func (g *HTTPGateway) ResendOTP(ctx context.Context, email string) error {
	return g.postStatus(ctx, "/auth/resend-otp", map[string]string{
		"email": email,
	})
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (string, error) {
	var lr struct {
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	err := g.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &lr)
	if err != nil {
		return "", err
	}
	if lr.Token == "" {
		// 2xx without a token still counts as a rejection.
		return "", &RejectError{StatusCode: http.StatusOK, Message: lr.Message}
	}
	return lr.Token, nil
}

func (g *HTTPGateway) ForgotPassword(ctx context.Context, email string) error {
	return g.postStatus(ctx, "/auth/forgot-password", map[string]string{
		"email": email,
	})
}

func (g *HTTPGateway) ValidateOTP(ctx context.Context, email, otp string) error {
	return g.postStatus(ctx, "/auth/validate-otp", map[string]string{
		"email": email,
		"otp":   otp,
	})
}

func (g *HTTPGateway) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return g.postStatus(ctx, "/auth/reset-password", map[string]string{
		"email":       email,
		"otp":         otp,
		"newPassword": newPassword,
	})
}

func (g *HTTPGateway) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (*Asset, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy file into multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/images/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var asset Asset
	if err := g.do(req, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (g *HTTPGateway) Protected(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/test/protected", nil)
	if err != nil {
		return "", err
	}

	body, err := g.doRaw(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// postStatus posts a JSON body and interprets the {success, message}
// envelope: success=false becomes a RejectError even on 2xx.
func (g *HTTPGateway) postStatus(ctx context.Context, path string, body any) error {
	var sr statusResponse
	if err := g.postJSON(ctx, path, body, &sr); err != nil {
		return err
	}
	if !sr.Success {
		return &RejectError{StatusCode: http.StatusOK, Message: sr.Message}
	}
	return nil
}

func (g *HTTPGateway) postJSON(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return g.do(req, out)
}

// do executes the request and decodes a 2xx body into out (when non-nil).
func (g *HTTPGateway) do(req *http.Request, out any) error {
	body, err := g.doRaw(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// doRaw executes the request, applying the bearer token and request id,
// and maps the outcome onto the gateway error taxonomy.
func (g *HTTPGateway) doRaw(req *http.Request) ([]byte, error) {
	if token := g.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.Warn(req.Context(), "request failed", "path", req.URL.Path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	g.log.Debug(req.Context(), "request completed",
		"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return nil, &RejectError{StatusCode: resp.StatusCode, Message: msg}
	}

	return body, nil
}
