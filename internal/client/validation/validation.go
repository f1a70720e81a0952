// Package validation holds the pure, pre-network checks the flows run
// before touching the gateway. No function here performs I/O.
package validation

import "fmt"

// MaxImageSizeBytes is the largest image the client will offer for upload.
const MaxImageSizeBytes = 10 * 1024 * 1024

// allowed image content types
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// Result is the discriminated outcome of a validator: Ok, or Invalid with
// a user-facing reason.
type Result struct {
	ok     bool
	reason string
}

func OK() Result {
	return Result{ok: true}
}

func Invalid(reason string) Result {
	return Result{reason: reason}
}

func (r Result) Ok() bool {
	return r.ok
}

// Reason returns the failure text, or "" for an Ok result.
func (r Result) Reason() string {
	return r.reason
}

// Required fails when value is empty.
func Required(name, value string) Result {
	if value == "" {
		return Invalid(fmt.Sprintf("%s is required", name))
	}
	return OK()
}

// PasswordsMatch fails when the confirmation differs from the password.
func PasswordsMatch(password, confirmation string) Result {
	if password != confirmation {
		return Invalid("Passwords do not match")
	}
	return OK()
}

// ImageAcceptable checks the content type and size limits for an upload
// candidate.
func ImageAcceptable(contentType string, size int64) Result {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return Invalid("Only JPEG and PNG images are allowed")
	}
	if size > MaxImageSizeBytes {
		return Invalid("Image is larger than the 10 MiB limit")
	}
	return OK()
}
