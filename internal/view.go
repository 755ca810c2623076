package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"punchclock/internal/attendance"
	"punchclock/internal/punchlog"
	"punchclock/internal/timer"
)

const (
	viewWidth   = 60
	dateLayout  = "Monday, January 2, 2006"
	logRowLimit = 12
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	checkInButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("29")).
				Padding(0, 2)

	checkOutButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("161")).
				Padding(0, 2)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	logFailedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m *Model) mainView() string {
	running := m.session.State() == attendance.StateRunning

	var sb strings.Builder
	sb.WriteString(dateStyle.Render(m.now().Format(dateLayout)))
	sb.WriteString("\n\n")

	clock := timer.Format(m.session.Elapsed())
	if running {
		sb.WriteString(timerRunningStyle.Render(clock))
	} else {
		sb.WriteString(timerDisplayStyle.Render(clock))
	}
	sb.WriteString("\n")

	if status := m.session.Status(); status != attendance.StatusNone {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render(string(status)))
		sb.WriteString("\n")
	}

	checkIn := checkInButtonStyle
	checkOut := checkOutButtonStyle
	if running {
		checkIn = disabledButtonStyle
	} else {
		checkOut = disabledButtonStyle
	}
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		checkIn.Render("Check-In"),
		"    ",
		checkOut.Render("Check-Out"),
	))

	card := boxStyle.Width(viewWidth - 4).Align(lipgloss.Center).Render(sb.String())

	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Width(viewWidth).Render("Check-In/Check-Out System"),
		"",
		card,
		"",
		helpStyle.Render(m.help.View(m.keys)),
	)
}

func (m *Model) logView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(viewWidth).Render("Punch Log"))
	sb.WriteString("\n\n")

	switch {
	case m.LogErr != nil:
		sb.WriteString(logFailedStyle.Render(fmt.Sprintf("Could not load punches: %v", m.LogErr)))
	case len(m.Logs) == 0:
		sb.WriteString(statusStyle.Render("No punches recorded yet."))
	default:
		sb.WriteString(logHeaderStyle.Render(fmt.Sprintf("%-14s  %-9s  %-8s  %s", "When", "Kind", "Elapsed", "Status")))
		sb.WriteString("\n")
		end := m.LogViewScroll + logRowLimit
		if end > len(m.Logs) {
			end = len(m.Logs)
		}
		for _, e := range m.Logs[m.LogViewScroll:end] {
			sb.WriteString(formatLogEntry(e))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Scroll: Up/Down | Back: Esc/l"))
	return sb.String()
}

func formatLogEntry(e punchlog.Entry) string {
	when := logTimeStyle.Render(fmt.Sprintf("%-14s", e.SubmittedAt.Local().Format("Jan 02 15:04")))
	kind := fmt.Sprintf("%-9s", attendance.Kind(e.Kind).String())
	elapsed := fmt.Sprintf("%-8s", timer.Format(int(e.Elapsed.Seconds())))

	status := e.Status
	if !e.Succeeded {
		status = logFailedStyle.Render(status)
	}
	return fmt.Sprintf("%s  %s  %s  %s", when, kind, elapsed, status)
}
