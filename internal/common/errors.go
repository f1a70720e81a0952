// Package common contains shared constants and sentinel errors used across
// the PictoFold client layers. Callers should match these with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Flow lifecycle errors. ErrBusy is returned when a second operation is
	// attempted on a flow that already has a request in flight; ErrFlowClosed
	// when a flow is used after Teardown.
	ErrBusy       = errors.New("operation already in progress")
	ErrFlowClosed = errors.New("flow is closed")
)
