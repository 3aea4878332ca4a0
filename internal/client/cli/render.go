package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/services"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// copyToClipboard is a test seam for clipboard.WriteAll.
var copyToClipboard = clipboard.WriteAll

const dateLayout = "Jan 2, 2006 15:04"

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) title(s string) {
	a.println(titleStyle.Render(s))
}

func (a *App) success(s string) {
	a.println(successStyle.Render(s))
}

func (a *App) warn(s string) {
	a.println(warningStyle.Render(s))
}

func (a *App) field(label, value string) {
	a.printf("%s %s\n", mutedStyle.Render(label+":"), value)
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// when renders t as a date with a relative hint, e.g. "Mar 3, 2025 10:00
// (2 days from now)".
func (a *App) when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format(dateLayout), humanize.RelTime(t, a.now(), "ago", "from now"))
}

func (a *App) whenPtr(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return a.when(*t)
}

func urgencyStyle(l services.Level) lipgloss.Style {
	switch l {
	case services.LevelWarning:
		return warningStyle
	case services.LevelError:
		return errorStyle
	case services.LevelNormal:
		return successStyle
	}
	return mutedStyle
}

func statusStyle(s models.MessageStatus) lipgloss.Style {
	switch s {
	case models.MessageSent:
		return successStyle
	case models.MessageFailed:
		return errorStyle
	case models.MessageScheduled, models.MessagePending:
		return warningStyle
	}
	return lipgloss.NewStyle()
}

func priorityLabel(p int) string {
	switch p {
	case 1:
		return "high"
	case 2:
		return "medium"
	case 3:
		return "low"
	}
	return strconv.Itoa(p)
}

// count formats n with thousands separators.
func count(n int) string {
	return humanize.Comma(int64(n))
}
