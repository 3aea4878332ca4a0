package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/router"
)

func newDashboardCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show message statistics and the check-in state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()

			stats, err := a.monitoring.Stats(ctx)
			if err != nil {
				return err
			}
			u, _ := a.session.State().User()
			a.title("Welcome back, " + u.Username)
			a.println(renderTable(
				[]string{"Total", "Created", "Pending", "Scheduled", "Sent", "Failed"},
				[][]string{{
					count(stats.TotalMessages), count(stats.Created), count(stats.Pending),
					count(stats.Scheduled), count(stats.Sent), count(stats.Failed),
				}},
			))

			// The check-in widget degrades to its alert; the stats are still useful.
			if _, err := a.checkin.Refresh(ctx); err != nil {
				a.warn("Check-in status unavailable: " + a.checkin.Alert())
				return nil
			}
			a.printUrgency()
			return nil
		},
	}
	return routed(cmd, router.Dashboard)
}

func newSystemCmd(r *runner) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Show the delivery system status (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			ctx := cmd.Context()
			if !watch {
				st, err := a.monitoring.SystemStatus(ctx)
				if err != nil {
					return err
				}
				a.printSystem(st)
				return nil
			}

			a.println(mutedStyle.Render(fmt.Sprintf("Refreshing every %s, press Ctrl+C to stop.", a.cfg.SystemPollInterval)))
			task := a.monitoring.WatchSystem(ctx, func(st *models.SystemStatus, err error) {
				if err != nil {
					a.println(errorStyle.Render(api.UserMessage(err)))
					return
				}
				a.printSystem(st)
			})
			<-ctx.Done()
			task.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling until interrupted")
	return routed(cmd, router.System)
}

func (a *App) printSystem(st *models.SystemStatus) {
	redis := errorStyle.Render("unavailable")
	switch {
	case st.RedisAvailable && st.RedisConnected:
		redis = successStyle.Render("connected")
	case st.RedisAvailable:
		redis = warningStyle.Render("available, not connected")
	}

	a.title("System status")
	a.field("Mode", st.Mode)
	a.field("Redis", redis)
	a.field("System time", st.SystemTime)
	a.println(renderTable(
		[]string{"Queued jobs", "Failed jobs", "Workers", "Your pending jobs"},
		[][]string{{
			strconv.Itoa(st.QueueInfo.QueuedJobs), strconv.Itoa(st.QueueInfo.FailedJobs),
			strconv.Itoa(st.QueueInfo.Workers), strconv.Itoa(st.UserPendingJobs),
		}},
	))
}

// waitJob blocks until the job reaches a terminal state or ctx ends.
func (a *App) waitJob(ctx context.Context, jobID string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	task := a.messages.WatchJob(ctx, jobID, func(st *models.JobStatus, err error) {
		if err != nil {
			a.println(errorStyle.Render(api.UserMessage(err)))
			return
		}
		a.printJob(st)
		if st.Status.Terminal() {
			cancel()
		}
	})
	<-task.Done()
	return nil
}

func (a *App) printJob(st *models.JobStatus) {
	line := fmt.Sprintf("job %s: %s", st.JobID, st.Status)
	switch st.Status {
	case models.JobFinished:
		a.success(line)
	case models.JobFailed, models.JobError:
		a.println(errorStyle.Render(line))
		if st.ExcInfo != "" {
			a.println(mutedStyle.Render(st.ExcInfo))
		}
	default:
		a.println(line)
	}
	if st.Message != "" {
		a.println(mutedStyle.Render(st.Message))
	}
}
