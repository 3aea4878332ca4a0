package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/router"
)

func newLockerCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locker",
		Short: "Manage your digital locker and its inheritor",
	}
	cmd.AddCommand(
		newLockerShowCmd(r),
		newLockerSaveCmd(r, "add"),
		newLockerSaveCmd(r, "edit"),
		newLockerDeleteCmd(r),
		newLockerSettingsCmd(r),
		newLockerTriggerCmd(r),
	)
	return cmd
}

func newLockerShowCmd(r *runner) *cobra.Command {
	var copyID string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the locker and its credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			v, err := a.locker.Load(cmd.Context())
			if err != nil {
				return err
			}

			if copyID != "" {
				c, err := a.locker.Credential(models.ID(copyID))
				if err != nil {
					return fmt.Errorf("credential %s: %w", copyID, err)
				}
				if err := copyToClipboard(c.Password); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				a.success("Password of " + c.Title + " copied to the clipboard")
				return nil
			}

			a.printLocker(v.Locker)
			a.println()
			a.printCredentials(a.locker.Credentials(), false)
			return nil
		},
	}
	cmd.Flags().StringVar(&copyID, "copy", "", "copy the password of this credential id to the clipboard")
	return routed(cmd, router.DigitalLocker)
}

func (a *App) printLocker(l models.DigitalLocker) {
	a.title(l.Title)
	if l.Description != "" {
		a.println(l.Description)
	}
	a.field("Status", string(l.Status))
	a.field("Inheritor", fmt.Sprintf("%s <%s> %s", l.InheritorName, l.InheritorEmail, l.InheritorPhone))
	a.field("OTP valid", strconv.Itoa(l.OTPValidHours)+" hours")
	a.field("Access attempts", strconv.Itoa(l.AccessAttemptsLimit))
	if l.AutoDeleteAfterAccess {
		a.field("Auto delete", strconv.Itoa(l.AutoDeleteDays)+" days after access")
	}
}

// printCredentials renders creds as a table. Passwords are masked unless
// reveal is set.
func (a *App) printCredentials(creds []models.Credential, reveal bool) {
	if len(creds) == 0 {
		a.println("No credentials stored.")
		return
	}
	rows := make([][]string, 0, len(creds))
	for _, c := range creds {
		pw := "********"
		if reveal {
			pw = c.Password
		}
		rows = append(rows, []string{
			c.ID.String(), c.Title, c.Category.Label(), c.WebsiteURL,
			c.Username, pw, priorityLabel(c.Priority),
		})
	}
	a.println(renderTable([]string{"ID", "Title", "Category", "Website", "Username", "Password", "Priority"}, rows))
}

type credentialFlags struct {
	title, category, website, account, username, notes string

	priority int
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "credential title")
	cmd.Flags().StringVar(&f.category, "category", "", "email, banking, crypto, social, cloud, domain, subscription or other")
	cmd.Flags().StringVar(&f.website, "website", "", "website URL")
	cmd.Flags().StringVar(&f.account, "account", "", "account identifier")
	cmd.Flags().StringVar(&f.username, "username", "", "username")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
	cmd.Flags().IntVar(&f.priority, "priority", 0, "1 (high) to 3 (low)")
}

func (f *credentialFlags) apply(cmd *cobra.Command, c *models.Credential) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("title", &c.Title, f.title)
	set("website", &c.WebsiteURL, f.website)
	set("account", &c.AccountIdentifier, f.account)
	set("username", &c.Username, f.username)
	set("notes", &c.Notes, f.notes)
	if cmd.Flags().Changed("category") {
		c.Category = models.Category(f.category)
	}
	if cmd.Flags().Changed("priority") {
		c.Priority = f.priority
	}
}

func newLockerSaveCmd(r *runner, verb string) *cobra.Command {
	var (
		f          credentialFlags
		noPassword bool
	)
	cmd := &cobra.Command{
		Use:   verb,
		Short: "Add a credential to the locker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()

			c := models.NewCredential()
			if verb == "edit" {
				if _, err := a.locker.Load(ctx); err != nil {
					return err
				}
				var err error
				if c, err = a.locker.Credential(models.ID(args[0])); err != nil {
					return fmt.Errorf("credential %s: %w", args[0], err)
				}
			}
			f.apply(cmd, &c)

			if verb == "add" && c.Title == "" {
				title, err := a.ask("", "Title")
				if err != nil {
					return err
				}
				c.Title = title
			}
			if !noPassword {
				pw, err := a.askSecret("Password (leave empty to keep)")
				if err != nil {
					return err
				}
				if len(pw) > 0 {
					c.Password = string(pw)
				}
				wipe(pw)
			}

			if err := a.locker.SaveCredential(ctx, c); err != nil {
				return err
			}
			a.success("Credential " + c.Title + " saved")
			return nil
		},
	}
	if verb == "edit" {
		cmd.Use = "edit <id>"
		cmd.Short = "Change a stored credential"
		cmd.Args = cobra.ExactArgs(1)
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&noPassword, "no-password", false, "do not prompt for the password")
	return routed(cmd, router.DigitalLocker)
}

func newLockerDeleteCmd(r *runner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a credential",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			if !yes {
				ok, err := a.confirm("Delete credential " + args[0] + "?")
				if err != nil || !ok {
					return err
				}
			}
			if err := a.locker.DeleteCredential(cmd.Context(), models.ID(args[0])); err != nil {
				return err
			}
			a.success("Credential " + args[0] + " deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return routed(cmd, router.DigitalLocker)
}

func newLockerSettingsCmd(r *runner) *cobra.Command {
	var (
		l          models.DigitalLocker
		autoDelete bool
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Change the locker title and the inheritor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()
			v, err := a.locker.Load(ctx)
			if err != nil {
				return err
			}

			next := v.Locker
			if next.OTPValidHours == 0 && next.AccessAttemptsLimit == 0 {
				d := models.DefaultLocker()
				next.OTPValidHours, next.AccessAttemptsLimit, next.AutoDeleteDays = d.OTPValidHours, d.AccessAttemptsLimit, d.AutoDeleteDays
			}
			fs := cmd.Flags()
			for name, apply := range map[string]func(){
				"title":            func() { next.Title = l.Title },
				"description":      func() { next.Description = l.Description },
				"inheritor-name":   func() { next.InheritorName = l.InheritorName },
				"inheritor-email":  func() { next.InheritorEmail = l.InheritorEmail },
				"inheritor-phone":  func() { next.InheritorPhone = l.InheritorPhone },
				"otp-hours":        func() { next.OTPValidHours = l.OTPValidHours },
				"attempts":         func() { next.AccessAttemptsLimit = l.AccessAttemptsLimit },
				"auto-delete":      func() { next.AutoDeleteAfterAccess = autoDelete },
				"auto-delete-days": func() { next.AutoDeleteDays = l.AutoDeleteDays },
			} {
				if fs.Changed(name) {
					apply()
				}
			}

			if err := a.locker.UpdateSettings(ctx, next); err != nil {
				return err
			}
			a.success("Locker settings saved")
			s, _ := a.locker.Settings()
			a.printLocker(s)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&l.Title, "title", "", "locker title")
	fs.StringVar(&l.Description, "description", "", "locker description")
	fs.StringVar(&l.InheritorName, "inheritor-name", "", "inheritor full name")
	fs.StringVar(&l.InheritorEmail, "inheritor-email", "", "inheritor email")
	fs.StringVar(&l.InheritorPhone, "inheritor-phone", "", "inheritor phone for the OTP")
	fs.IntVar(&l.OTPValidHours, "otp-hours", 0, "hours an OTP stays valid")
	fs.IntVar(&l.AccessAttemptsLimit, "attempts", 0, "allowed access attempts")
	fs.BoolVar(&autoDelete, "auto-delete", false, "delete the locker after it was accessed")
	fs.IntVar(&l.AutoDeleteDays, "auto-delete-days", 0, "days after access before deletion")
	return routed(cmd, router.DigitalLocker)
}

func newLockerTriggerCmd(r *runner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Release the locker to the inheritor now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			if !yes {
				ok, err := a.confirm("Send the access link to your inheritor now?")
				if err != nil || !ok {
					return err
				}
			}
			res, err := a.locker.TriggerInheritance(cmd.Context())
			if err != nil {
				return err
			}
			msg := res.Message
			if msg == "" {
				msg = "Inheritance triggered"
			}
			a.success(msg)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return routed(cmd, router.DigitalLocker)
}
