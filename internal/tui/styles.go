// Package tui provides the Bubble Tea interfaces for opsim: the live
// training-session console and the saved-report viewer.
package tui

import "github.com/charmbracelet/lipgloss"

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, underlined
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a panel
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Transcript roles
	operatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	callerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	typingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	// Connection badges
	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	connectingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Form sidebar
	formBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	formFocusedBorderStyle = formBorderStyle.
				BorderForeground(lipgloss.Color("62"))

	// Selected form row
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))

	// Result screen
	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
