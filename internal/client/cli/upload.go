package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/pictofold/pictofold-cli/internal/client/api"
	"github.com/pictofold/pictofold-cli/internal/client/flows/upload"
)

// Upload drives the image upload flow interactively: pick a local file,
// review the preview, then confirm the transfer. The user can type
// "change" at the preview step to pick a different file, or "cancel" to
// abandon the upload.
func (a *App) Upload(ctx context.Context) error {
	flow := upload.New(a.gateway, a.previews)
	defer flow.Teardown()

	for {
		switch flow.State() {
		case upload.StateIdle:
			path, err := GetSimpleText(a.reader, "Enter the path of the image to upload (or 'cancel')", a.out)
			if err != nil {
				return err
			}
			if path == "cancel" {
				return nil
			}
			file, err := upload.DetectLocalFile(path)
			if err != nil {
				fmt.Fprintln(a.out, "Could not read the selected file.")
				continue
			}
			if err := flow.SelectFile(file); err != nil {
				return err
			}
			a.report(flow.ErrorMessage(), flow.InfoMessage())

		case upload.StatePreviewReady:
			fmt.Fprintf(a.out, "Preview ready: %s (%d bytes)\n", flow.Preview().Path(), flow.SelectedFile().Size)
			answer, err := GetSimpleText(a.reader, "Type 'upload' to confirm, 'change' to pick another file, 'cancel' to abort", a.out)
			if err != nil {
				return err
			}
			switch answer {
			case "upload":
				err := flow.StartTransfer(ctx)
				if errors.Is(err, api.ErrUnauthorized) {
					a.sessions.Logout(ctx)
					fmt.Fprintln(a.out, api.ErrorMessage(err))
					return nil
				}
				if err != nil {
					return err
				}
				a.report(flow.ErrorMessage(), flow.InfoMessage())
			case "change":
				if err := flow.ChangeImage(); err != nil {
					return err
				}
			case "cancel":
				return nil
			default:
				fmt.Fprintln(a.out, "Unknown answer:", answer)
			}

		case upload.StateConfirmed:
			rec := flow.RemoteRecord()
			fmt.Fprintf(a.out, "%s (%s, %d bytes, %s)\n%s\n",
				rec.OriginalFilename, rec.Format, rec.FileSizeBytes, rec.ProcessingStatus, rec.URL)
			return nil
		}
	}
}
