// Package upload implements the image pipeline: select a local file,
// hold a revocable preview of it, transfer it, and keep the confirmed
// remote record. A failed or rejected transfer never loses the selected
// file; only a successful transfer or an explicit change discards it.
package upload

import (
	"context"
	"errors"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/pictofold/pictofold-cli/internal/client/api"
	"github.com/pictofold/pictofold-cli/internal/client/preview"
	"github.com/pictofold/pictofold-cli/internal/client/validation"
	"github.com/pictofold/pictofold-cli/internal/common"
)

type State string

const (
	StateIdle         State = "idle"
	StatePreviewReady State = "preview_ready"
	StateTransferring State = "transferring"
	StateConfirmed    State = "confirmed"
)

var ErrInvalidState = errors.New("operation not allowed in current state")

// LocalFile describes a selected local image.
type LocalFile struct {
	Path        string
	ContentType string
	Size        int64
}

// DetectLocalFile stats the file at path and infers its content type from
// the extension. Detection failures are reported as errors; acceptability
// is the validator's job, not this function's.
func DetectLocalFile(path string) (LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return LocalFile{}, err
	}
	return LocalFile{
		Path:        path,
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
	}, nil
}

// Flow walks Idle → PreviewReady → Transferring → Confirmed. It is the
// exclusive owner of its preview handle; at most one handle is live, and
// every exit path that does not carry the handle forward revokes it.
type Flow struct {
	gw       api.Gateway
	previews *preview.Manager

	mu      sync.Mutex
	state   State
	file    *LocalFile
	handle  *preview.Handle
	record  *api.Asset
	errMsg  string
	infoMsg string
	busy    bool
	closed  bool
}

func New(gw api.Gateway, previews *preview.Manager) *Flow {
	return &Flow{gw: gw, previews: previews, state: StateIdle}
}

// SelectFile validates the candidate and, when acceptable, replaces the
// current selection and preview. An invalid file leaves the current state,
// selection, and any live preview untouched.
func (f *Flow) SelectFile(file LocalFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return common.ErrFlowClosed
	}
	if f.busy {
		return common.ErrBusy
	}
	if f.state == StateTransferring {
		return ErrInvalidState
	}

	if r := validation.ImageAcceptable(file.ContentType, file.Size); !r.Ok() {
		f.errMsg = r.Reason()
		f.infoMsg = ""
		return nil
	}

	// The old preview goes first so there is never a moment with two
	// live handles.
	if f.handle != nil {
		_ = f.handle.Revoke()
		f.handle = nil
	}

	handle, err := f.previews.Acquire(file.Path)
	if err != nil {
		f.file = nil
		f.state = StateIdle
		f.errMsg = "Could not read the selected file."
		f.infoMsg = ""
		return nil
	}

	f.file = &file
	f.handle = handle
	f.record = nil
	f.state = StatePreviewReady
	f.errMsg = ""
	f.infoMsg = ""
	return nil
}

// StartTransfer uploads the selected file. On success the preview is
// revoked and the remote record stored; on failure the flow drops back to
// PreviewReady with the selection and preview intact so the user can
// retry without re-selecting.
//
// An auth failure is returned to the caller untouched: the session layer,
// not this flow, decides what "no longer signed in" means.
func (f *Flow) StartTransfer(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return common.ErrFlowClosed
	}
	if f.busy {
		f.mu.Unlock()
		return common.ErrBusy
	}
	if f.state != StatePreviewReady {
		f.mu.Unlock()
		return ErrInvalidState
	}
	f.busy = true
	f.state = StateTransferring
	file := *f.file
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	src, err := os.Open(file.Path)
	if err != nil {
		f.demote("Could not read the selected file.")
		return nil
	}
	defer src.Close()

	asset, err := f.gw.UploadImage(ctx, filepath.Base(file.Path), file.ContentType, src)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			f.demote(api.ErrorMessage(err))
			return err
		}
		f.demote(api.ErrorMessage(err))
		return nil
	}

	f.mu.Lock()
	if f.handle != nil {
		_ = f.handle.Revoke()
		f.handle = nil
	}
	f.record = asset
	f.state = StateConfirmed
	f.errMsg = ""
	f.infoMsg = "Upload confirmed."
	f.mu.Unlock()
	return nil
}

// ChangeImage resets the flow to Idle from any state: the preview is
// revoked, the selection and remote record are discarded, and the caller
// should prompt for a new file.
func (f *Flow) ChangeImage() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return common.ErrFlowClosed
	}
	if f.busy {
		return common.ErrBusy
	}
	if f.handle != nil {
		_ = f.handle.Revoke()
		f.handle = nil
	}
	f.file = nil
	f.record = nil
	f.state = StateIdle
	f.errMsg = ""
	f.infoMsg = ""
	return nil
}

// Teardown is the unmount equivalent: it revokes any live preview and
// closes the flow.
func (f *Flow) Teardown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handle != nil {
		_ = f.handle.Revoke()
		f.handle = nil
	}
	f.closed = true
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SelectedFile returns the current selection, or nil.
func (f *Flow) SelectedFile() *LocalFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file
}

// Preview returns the live preview handle, or nil.
func (f *Flow) Preview() *preview.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handle
}

// RemoteRecord returns the confirmed asset record, or nil before a
// successful transfer.
func (f *Flow) RemoteRecord() *api.Asset {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record
}

func (f *Flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Flow) InfoMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infoMsg
}

// demote drops Transferring back to PreviewReady, keeping the selection
// and preview so a retry needs no re-selection.
func (f *Flow) demote(msg string) {
	f.mu.Lock()
	f.state = StatePreviewReady
	f.errMsg = msg
	f.infoMsg = ""
	f.mu.Unlock()
}
