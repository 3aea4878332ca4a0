package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/config"
	"github.com/dmitrijs2005/afteryou/internal/client/export"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/router"
	"github.com/dmitrijs2005/afteryou/internal/client/services"
)

type inheritFlags struct {
	name, phone, otp string
	format           string
	seal, s3, reveal bool
	copyID           string
}

func newInheritCmd(r *runner) *cobra.Command {
	var f inheritFlags
	cmd := &cobra.Command{
		Use:   "inherit <token>",
		Short: "Open a digital locker left to you",
		Long: `Open a digital locker with the access token from the inheritance email.

You confirm your name and phone number, enter the one-time password sent by
SMS and then see the stored credentials. --export writes them to a file in
the export directory; add --seal to protect the file with a passphrase, or
--s3 to upload a sealed copy to the configured bucket.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.mustApp().inherit(cmd.Context(), args[0], f)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "your full name as registered by the owner")
	fs.StringVar(&f.phone, "phone", "", "your phone number")
	fs.StringVar(&f.otp, "otp", "", "one-time password")
	fs.StringVar(&f.format, "export", "", "export the credentials as json or csv")
	fs.BoolVar(&f.seal, "seal", false, "seal the export with a passphrase")
	fs.BoolVar(&f.s3, "s3", false, "upload the sealed export to S3")
	fs.BoolVar(&f.reveal, "reveal", false, "print passwords instead of masking them")
	fs.StringVar(&f.copyID, "copy", "", "copy the password of this credential id to the clipboard")
	return routed(cmd, router.InheritanceLink)
}

func (a *App) inherit(ctx context.Context, token string, f inheritFlags) error {
	in := services.NewInheritance(a.backend, token, a.cfg.AccessCountdownInterval)
	defer in.Close()

	if err := in.Start(ctx); err != nil {
		return errors.New(in.Snapshot().Error)
	}

	snap := in.Snapshot()
	a.title(snap.Info.LockerTitle)
	if snap.Info.LockerOwner != "" {
		a.field("Left by", snap.Info.LockerOwner)
	}
	if snap.Info.LockerDescription != "" {
		a.println(snap.Info.LockerDescription)
	}
	left, err := in.TimeRemaining(a.now())
	if err != nil {
		return err
	}
	if left != "" {
		a.field("Access", left)
	}
	in.StartCountdown(ctx, func(_ string, err error) {
		if err != nil {
			a.println(errorStyle.Render(err.Error()))
		}
	})

	if snap.Step == services.StepVerifyIdentity {
		name, err := a.ask(f.name, "Full name")
		if err != nil {
			return err
		}
		phone, err := a.ask(f.phone, "Phone number")
		if err != nil {
			return err
		}
		if err := in.SubmitIdentity(ctx, name, phone); err != nil {
			return errors.New(in.Snapshot().Error)
		}
		if msg := in.Snapshot().Message; msg != "" {
			a.success(msg)
		}
	}

	if in.Snapshot().Step == services.StepVerifyOTP {
		otp, err := a.ask(f.otp, "One-time password")
		if err != nil {
			return err
		}
		if err := in.SubmitOTP(ctx, otp); err != nil {
			return errors.New(in.Snapshot().Error)
		}
	}

	snap = in.Snapshot()
	if snap.Step != services.StepReveal {
		return fmt.Errorf("access not granted (step %s)", snap.Step)
	}
	a.success("Access granted")
	a.printCredentials(snap.Credentials, f.reveal)

	if f.copyID != "" {
		if err := a.copyCredential(snap.Credentials, models.ID(f.copyID)); err != nil {
			return err
		}
	}
	if f.format == "" {
		return nil
	}
	return a.exportCredentials(ctx, in, f)
}

func (a *App) copyCredential(creds []models.Credential, id models.ID) error {
	for _, c := range creds {
		if c.ID == id {
			if err := copyToClipboard(c.Password); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			a.success("Password of " + c.Title + " copied to the clipboard")
			return nil
		}
	}
	return fmt.Errorf("credential %s: %w", id, services.ErrNotFound)
}

func (a *App) exportCredentials(ctx context.Context, in *services.Inheritance, f inheritFlags) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}

	var sink export.Sink = export.FileSink{Dir: a.cfg.ExportDir}
	if f.s3 {
		if sink, err = newS3Sink(a.cfg.S3); err != nil {
			return err
		}
	}

	var passphrase []byte
	if f.seal || f.s3 {
		if passphrase, err = a.newPassphrase(); err != nil {
			return err
		}
		defer wipe(passphrase)
	} else {
		a.warn("The export is not encrypted. Store it somewhere safe and delete it when done.")
	}

	where, err := in.Export(ctx, format, sink, passphrase)
	if err != nil {
		return err
	}
	a.success("Exported to " + where)
	return nil
}

// newPassphrase asks for a passphrase twice.
func (a *App) newPassphrase() ([]byte, error) {
	p1, err := a.askSecret("Export passphrase")
	if err != nil {
		return nil, err
	}
	p2, err := a.askSecret("Repeat passphrase")
	if err != nil {
		wipe(p1)
		return nil, err
	}
	defer wipe(p2)
	if !bytes.Equal(p1, p2) {
		wipe(p1)
		return nil, errors.New("passphrases do not match")
	}
	if len(p1) == 0 {
		return nil, errors.New("passphrase is empty")
	}
	return p1, nil
}

// newS3Sink is a test seam.
var newS3Sink = func(c config.S3) (export.Sink, error) {
	return export.NewS3Sink(export.S3Config{
		Bucket:    c.Bucket,
		Region:    c.Region,
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Prefix:    c.Prefix,
	})
}
