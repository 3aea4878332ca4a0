package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/router"
)

func newCheckInCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check in and manage the dead man's switch",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show when the next check-in is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			if _, err := a.checkin.Refresh(cmd.Context()); err != nil {
				return err
			}
			a.printCheckIn()
			return nil
		},
	}

	now := &cobra.Command{
		Use:   "now",
		Short: "Record a check-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			if _, err := a.checkin.CheckIn(cmd.Context()); err != nil {
				return err
			}
			a.success("Checked in")
			a.printUrgency()
			return nil
		},
	}

	var interval, grace int
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the check-in interval and grace period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()
			st, err := a.checkin.Refresh(ctx)
			if err != nil {
				return err
			}

			s := st.Settings()
			changed := false
			if cmd.Flags().Changed("interval") {
				s.CheckInIntervalMonths, changed = interval, true
			}
			if cmd.Flags().Changed("grace") {
				s.GracePeriodDays, changed = grace, true
			}
			if changed {
				if _, err := a.checkin.SaveSettings(ctx, s); err != nil {
					return err
				}
				a.success("Settings saved")
			}
			a.printCheckIn()
			return nil
		},
	}
	settings.Flags().IntVarP(&interval, "interval", "i", 0, "check-in interval in months (1, 3, 6, 12 or 24)")
	settings.Flags().IntVarP(&grace, "grace", "g", 0, "grace period in days (1-30)")

	cmd.AddCommand(
		routed(status, router.Settings),
		routed(now, router.Settings),
		routed(settings, router.Settings),
	)
	return cmd
}

func (a *App) printUrgency() {
	u := a.checkin.Urgency()
	a.println(urgencyStyle(u.Level).Render(u.Text))
}

func (a *App) printCheckIn() {
	st := a.checkin.Status()
	if st == nil {
		return
	}
	a.title("Check-in")
	a.printUrgency()
	a.field("Last check-in", a.whenPtr(st.LastCheckIn))
	a.field("Next due", a.when(st.NextCheckInDue))
	a.field("Interval", strconv.Itoa(st.CheckInIntervalMonths)+" months")
	a.field("Grace period", strconv.Itoa(st.GracePeriodDays)+" days")
	if st.GracePeriodEnd != nil {
		a.field("Grace period ends", a.when(*st.GracePeriodEnd))
	}
	if st.NotificationSentAt != nil {
		a.field("Reminder sent", a.when(*st.NotificationSentAt))
	}
	a.field("Scheduled messages", count(st.ScheduledMessagesCount))
}
