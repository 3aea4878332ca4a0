package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/router"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

// parseDate reads a delivery date in local time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot read date %q (use YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
}

func newMessagesCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Manage legacy messages",
	}
	cmd.AddCommand(
		newMessagesListCmd(r),
		newMessagesShowCmd(r),
		newMessagesCreateCmd(r),
		newMessagesEditCmd(r),
		newMessagesDeleteCmd(r),
		newMessagesActionCmd(r, "send-test", "Deliver a message to its recipient now"),
		newMessagesActionCmd(r, "schedule", "Queue a message for its delivery date"),
		newMessagesJobCmd(r),
	)
	return cmd
}

func newMessagesListCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List your messages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			items, err := a.messages.Load(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				a.println("No messages yet. Create one with 'afteryou messages create'.")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, m := range items {
				rows = append(rows, []string{
					m.ID.String(), m.Title, m.RecipientEmail,
					m.DeliveryDate.Local().Format(dateLayout),
					statusStyle(m.Status).Render(string(m.Status)),
				})
			}
			a.println(renderTable([]string{"ID", "Title", "Recipient", "Delivery", "Status"}, rows))
			return nil
		},
	}
	return routed(cmd, router.Messages)
}

func newMessagesShowCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			m, err := a.messages.Get(cmd.Context(), models.ID(args[0]))
			if err != nil {
				return err
			}
			a.printMessage(m)
			return nil
		},
	}
	return routed(cmd, router.MessageDetail)
}

func (a *App) printMessage(m *models.Message) {
	a.title(m.Title)
	a.field("ID", m.ID.String())
	a.field("Status", statusStyle(m.Status).Render(string(m.Status)))
	a.field("Recipient", m.RecipientEmail)
	a.field("Delivery", a.when(m.DeliveryDate))
	a.field("Created", a.when(m.CreatedAt))
	if m.SentAt != nil {
		a.field("Sent", a.when(*m.SentAt))
	}
	if m.JobID != "" {
		a.field("Job", m.JobID)
	}
	a.println()
	a.println(m.Content)
}

type draftFlags struct {
	title, content, to, deliver string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "message title")
	cmd.Flags().StringVarP(&f.content, "content", "c", "", "message body")
	cmd.Flags().StringVar(&f.to, "to", "", "recipient email")
	cmd.Flags().StringVarP(&f.deliver, "deliver", "d", "", "delivery date (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
}

// apply overlays the set flags on d.
func (f *draftFlags) apply(d *models.MessageDraft) error {
	if f.title != "" {
		d.Title = f.title
	}
	if f.content != "" {
		d.Content = f.content
	}
	if f.to != "" {
		d.RecipientEmail = f.to
	}
	if f.deliver != "" {
		t, err := parseDate(f.deliver)
		if err != nil {
			return err
		}
		d.DeliveryDate = t
	}
	return nil
}

func newMessagesCreateCmd(r *runner) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a new message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			var err error
			if f.title, err = a.ask(f.title, "Title"); err != nil {
				return err
			}
			if f.to, err = a.ask(f.to, "Recipient email"); err != nil {
				return err
			}
			if f.deliver, err = a.ask(f.deliver, "Delivery date (YYYY-MM-DD or YYYY-MM-DD HH:MM)"); err != nil {
				return err
			}
			if f.content, err = a.askMultiline(f.content, "Message"); err != nil {
				return err
			}

			var d models.MessageDraft
			if err := f.apply(&d); err != nil {
				return err
			}
			m, err := a.messages.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			a.success(fmt.Sprintf("Message %s created", m.ID))
			return nil
		},
	}
	f.register(cmd)
	return routed(cmd, router.MessageCreate)
}

func newMessagesEditCmd(r *runner) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a message that has not been scheduled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()
			id := models.ID(args[0])

			m, err := a.messages.Get(ctx, id)
			if err != nil {
				return err
			}
			if !m.Editable() {
				return fmt.Errorf("message %s is %s and can no longer be edited", id, m.Status)
			}

			d := m.Draft()
			if err := f.apply(&d); err != nil {
				return err
			}
			if _, err := a.messages.Update(ctx, id, d); err != nil {
				return err
			}
			a.success(fmt.Sprintf("Message %s updated", id))
			return nil
		},
	}
	f.register(cmd)
	return routed(cmd, router.MessageEdit)
}

func newMessagesDeleteCmd(r *runner) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a message",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()
			id := models.ID(args[0])

			if _, err := a.messages.Load(ctx); err != nil {
				return err
			}
			if !yes {
				ok, err := a.confirm(fmt.Sprintf("Delete message %s?", id))
				if err != nil || !ok {
					return err
				}
			}
			if err := a.messages.Delete(ctx, id); err != nil {
				return err
			}
			a.success(fmt.Sprintf("Message %s deleted", id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return routed(cmd, router.MessageDetail)
}

func newMessagesActionCmd(r *runner, use, short string) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()
			id := models.ID(args[0])

			action := a.messages.Schedule
			if use == "send-test" {
				action = a.messages.SendTest
			}
			res, err := action(ctx, id)
			if err != nil {
				return err
			}
			msg := res.Message
			if msg == "" {
				msg = "Done"
			}
			a.success(msg)

			if res.JobID == "" {
				return nil
			}
			a.field("Job", res.JobID)
			if wait {
				return a.waitJob(ctx, res.JobID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "follow the delivery job until it ends")
	return routed(cmd, router.MessageDetail)
}

func newMessagesJobCmd(r *runner) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "job <job-id>",
		Short: "Show the status of a delivery job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			if watch {
				return a.waitJob(cmd.Context(), args[0])
			}
			st, err := a.backend.JobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printJob(st)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "poll until the job ends")
	return routed(cmd, router.Messages)
}
